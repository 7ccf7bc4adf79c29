package worldbank

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
)

// Source is the read surface of the World Bank client.
type Source interface {
	Indicator(ctx context.Context, country, indicator string, start, end int) ([]domain.IndicatorRecord, error)
	Countries(ctx context.Context) ([]domain.CountrySummary, error)
}

const countriesKey = "countries"

// CachedSource wraps a Source with an in-memory LRU cache whose entries
// expire after a fixed TTL.
type CachedSource struct {
	inner   Source
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a World Bank source.
func NewCachedSource(inner Source, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

func (c *CachedSource) Indicator(ctx context.Context, country, indicator string, start, end int) ([]domain.IndicatorRecord, error) {
	key := indicatorKey(country, indicator, start, end)
	if v, ok := c.lookup(key); ok {
		return v.([]domain.IndicatorRecord), nil
	}
	records, err := c.inner.Indicator(ctx, country, indicator, start, end)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so a sparse response can be retried.
	if len(records) > 0 {
		c.cache.put(key, records, c.clock.Now().Add(c.ttl))
	}
	return records, nil
}

func (c *CachedSource) Countries(ctx context.Context) ([]domain.CountrySummary, error) {
	if v, ok := c.lookup(countriesKey); ok {
		return v.([]domain.CountrySummary), nil
	}
	countries, err := c.inner.Countries(ctx)
	if err != nil {
		return nil, err
	}
	if len(countries) > 0 {
		c.cache.put(countriesKey, countries, c.clock.Now().Add(c.ttl))
	}
	return countries, nil
}

func (c *CachedSource) lookup(key string) (any, bool) {
	v, result := c.cache.get(key, c.clock.Now())
	c.metrics.Cache.WithLabelValues(result).Inc()
	return v, result == "hit"
}

// lruCache is a small thread-safe LRU cache with per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// get returns the value and one of "hit", "miss" or "expired".
func (c *lruCache) get(key string, now time.Time) (any, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, "miss"
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return nil, "expired"
	}
	c.moveToFront(e)
	return e.value, "hit"
}

func (c *lruCache) put(key string, value any, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
