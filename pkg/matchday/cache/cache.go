// Package cache provides an in-memory expiring store keyed to wall-clock
// boundaries. Entries expire at an absolute deadline and are evicted lazily
// on read; the working set is bounded by the calendar days in use, so there
// is no size-based eviction.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a concurrency-safe key/value store with per-entry absolute
// expiry. The zero value is not usable; create one with New.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	now     func() time.Time
}

// New creates an empty store.
func New[V any]() *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// NewWithClock creates a store with an injected clock, for tests.
func NewWithClock[V any](now func() time.Time) *Store[V] {
	s := New[V]()
	s.now = now
	return s
}

// Get returns the value stored under key, if present and not expired.
// An expired entry is removed on access.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, expiring ttl from now. An existing entry is
// overwritten.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, expiresAt: s.now().Add(ttl)}
}

// Len returns the number of entries, expired or not.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TTLToNextQuarterHour returns the duration from now until the next
// :00/:15/:30/:45 boundary. Past :45 it lands on the top of the next hour.
func TTLToNextQuarterHour(now time.Time) time.Duration {
	next := now.Truncate(time.Minute)
	m := now.Minute()
	switch {
	case m < 15:
		next = next.Add(time.Duration(15-m) * time.Minute)
	case m < 30:
		next = next.Add(time.Duration(30-m) * time.Minute)
	case m < 45:
		next = next.Add(time.Duration(45-m) * time.Minute)
	default:
		next = next.Add(time.Duration(60-m) * time.Minute)
	}
	return next.Sub(now)
}

// TTLToMidnight returns the duration from now until the next local day
// boundary in now's location.
func TTLToMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	mid := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return mid.Sub(now)
}
