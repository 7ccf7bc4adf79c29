package dashboard

import "sync"

// View holds the latest result of a query that may be issued repeatedly.
// Each fetch takes a ticket from Begin; only the holder of the newest ticket
// may Commit, so a slow superseded fetch never overwrites a newer result.
type View[T any] struct {
	mu    sync.Mutex
	seq   uint64
	value T
	set   bool
}

// Begin starts a fetch and returns its ticket.
func (v *View[T]) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	return v.seq
}

// Commit stores val if ticket is still the newest. It reports whether the
// value was stored.
func (v *View[T]) Commit(ticket uint64, val T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ticket != v.seq {
		return false
	}
	v.value = val
	v.set = true
	return true
}

// Current returns the last committed value.
func (v *View[T]) Current() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.set
}
