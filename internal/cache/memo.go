// Package cache memoizes API results with a TTL and a stale-on-error
// fallback, keeping screens usable through short network outages.
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	payload   T
	fetchedAt time.Time
}

// Result carries a cached or freshly loaded payload. Stale marks a payload
// served past its TTL because the refetch failed.
type Result[T any] struct {
	Payload   T
	Stale     bool
	FetchedAt time.Time
}

// Loader produces a fresh payload for a cache key.
type Loader[T any] func(ctx context.Context) (T, error)

// Memo is a keyed TTL cache. Loads run outside the lock, so two
// near-simultaneous fetches for one key may both hit the network and
// either response may win the slot; both represent valid recent data.
type Memo[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[T]
	now     func() time.Time
}

// New creates a Memo with the given TTL.
func New[T any](ttl time.Duration) *Memo[T] {
	return &Memo[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Fetch returns the cached payload when its age is under the TTL, loads
// and stores otherwise. A failed load falls back to any existing entry,
// however old, flagged stale; with no entry the error propagates.
func (m *Memo[T]) Fetch(ctx context.Context, key string, load Loader[T]) (Result[T], error) {
	m.mu.Lock()
	cached, ok := m.entries[key]
	now := m.now()
	if ok && now.Sub(cached.fetchedAt) < m.ttl {
		m.mu.Unlock()
		return Result[T]{Payload: cached.payload, FetchedAt: cached.fetchedAt}, nil
	}
	m.mu.Unlock()

	payload, err := load(ctx)
	if err != nil {
		if ok {
			return Result[T]{Payload: cached.payload, Stale: true, FetchedAt: cached.fetchedAt}, nil
		}
		var zero Result[T]
		return zero, err
	}

	m.mu.Lock()
	fetchedAt := m.now()
	m.entries[key] = entry[T]{payload: payload, fetchedAt: fetchedAt}
	m.mu.Unlock()

	return Result[T]{Payload: payload, FetchedAt: fetchedAt}, nil
}

// Refresh evicts the key before fetching, forcing a load.
func (m *Memo[T]) Refresh(ctx context.Context, key string, load Loader[T]) (Result[T], error) {
	m.Invalidate(key)
	return m.Fetch(ctx, key, load)
}

// Invalidate drops the entry for key.
func (m *Memo[T]) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// InvalidateAll drops every entry.
func (m *Memo[T]) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry[T])
}

// Peek returns the current entry for key regardless of age, without
// triggering a load.
func (m *Memo[T]) Peek(key string) (Result[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cached, ok := m.entries[key]
	if !ok {
		var zero Result[T]
		return zero, false
	}
	stale := m.now().Sub(cached.fetchedAt) >= m.ttl
	return Result[T]{Payload: cached.payload, Stale: stale, FetchedAt: cached.fetchedAt}, true
}

// SetClock overrides the time source. Tests only.
func (m *Memo[T]) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Key serializes a parameter set into a cache key. Keys are sorted so two
// logically identical queries map to the same key regardless of insertion
// order; nil and empty values are dropped.
func Key(params map[string]any) string {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == nil || fmt.Sprintf("%v", value) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, params[name]))
	}
	return strings.Join(parts, "&")
}
