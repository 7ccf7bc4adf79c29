// Package dashboard answers the dashboard's queries: it walks the live
// sources, normalizes and correlates their data, and falls back to the mock
// provider whenever the live sources are exhausted.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
)

// publishTimeout bounds a single snapshot publish. Publishing runs off the
// request path, so this only limits how long a stuck broker holds a goroutine.
const publishTimeout = 5 * time.Second

// Result provenance.
const (
	SourceLive = "live"
	SourceMock = "mock"
)

// IndicatorSource serves World Bank indicator series and the country list.
type IndicatorSource interface {
	Indicator(ctx context.Context, country, indicator string, start, end int) ([]domain.IndicatorRecord, error)
	Countries(ctx context.Context) ([]domain.CountrySummary, error)
}

// HappinessSource serves World Happiness Report data.
type HappinessSource interface {
	Score(ctx context.Context, country string, year int) (domain.HappinessScore, error)
	Series(ctx context.Context, country string, start, end int) ([]domain.SeriesPoint, error)
	Scores(ctx context.Context, year int) ([]domain.CountryScore, error)
}

// SnapshotPublisher receives computed results. Publishing is best effort.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Sourced tags a result with where it came from.
type Sourced[T any] struct {
	Data   T      `json:"data"`
	Source string `json:"source"`
}

// Service orchestrates the dashboard queries.
type Service struct {
	indicators IndicatorSource
	happiness  HappinessSource
	publisher  SnapshotPublisher
	bounds     domain.YearBounds
	logger     *slog.Logger
	metrics    *observability.Metrics

	rngMu sync.Mutex
	rng   *rand.Rand

	countries View[Sourced[[]domain.CountrySummary]]
	ready     atomic.Bool

	inflight sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher enables snapshot publishing.
func WithPublisher(p SnapshotPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRand sets the random source of synthetic fallback series. Without it
// the unseeded global source is used.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithYearBounds overrides domain.DefaultYearBounds.
func WithYearBounds(b domain.YearBounds) Option {
	return func(s *Service) { s.bounds = b }
}

// New creates a Service over the given sources.
func New(indicators IndicatorSource, happiness HappinessSource, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		indicators: indicators,
		happiness:  happiness,
		bounds:     domain.DefaultYearBounds,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the accepted year window.
func (s *Service) Bounds() domain.YearBounds { return s.bounds }

// CheckReadiness returns nil once the country list has been loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("country list not loaded yet")
	}
	return nil
}

// Warmup loads the country list so name lookups and readiness work before
// the first request.
func (s *Service) Warmup(ctx context.Context) {
	res := s.Countries(ctx)
	s.logger.Info("country list loaded", "source", res.Source, "countries", len(res.Data))
}

func (s *Service) fellBack(query string, err error) {
	s.metrics.Fallbacks.WithLabelValues(query).Inc()
	s.logger.Warn("live sources exhausted, serving mock data", "query", query, "error", err)
}

// publish hands a snapshot to the publisher in the background. The publish
// outlives the request context but not publishTimeout.
func (s *Service) publish(ctx context.Context, kind, subject string, data any) {
	if s.publisher == nil {
		return
	}
	snap := newSnapshot(kind, subject, data)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, snap); err != nil {
			s.logger.Warn("snapshot publish failed", "kind", kind, "subject", subject, "error", err)
		}
	}()
}

// Flush blocks until every snapshot publish started so far has finished.
func (s *Service) Flush() {
	s.inflight.Wait()
}
