package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-memory map whose entries expire after ttl of inactivity.
// Every successful Get slides the deadline forward. Expired or deleted
// values are handed to the eviction hook exactly once.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
	onEvict func(key string, value V)
}

type Option[V any] func(*Store[V])

// WithEvictHook sets the callback invoked outside the store lock for every removed entry.
func WithEvictHook[V any](fn func(key string, value V)) Option[V] {
	return func(s *Store[V]) {
		s.onEvict = fn
	}
}

func NewStore[V any](ttl time.Duration, opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	now := s.now()
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return zero, false
	}
	if s.expired(e, now) {
		delete(s.entries, key)
		s.mu.Unlock()
		s.evict(key, e.value)
		return zero, false
	}
	e.expiresAt = s.deadline(now)
	s.entries[key] = e
	s.mu.Unlock()

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	s.mu.Lock()
	previous, replaced := s.entries[key]
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: s.deadline(s.now()),
	}
	s.mu.Unlock()

	if replaced {
		s.evict(key, previous.value)
	}
}

func (s *Store[V]) Delete(_ context.Context, key string) bool {
	if key == "" {
		return false
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if ok {
		s.evict(key, e.value)
	}
	return ok
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes every expired entry and reports how many were evicted.
func (s *Store[V]) Sweep(_ context.Context) int {
	now := s.now()

	s.mu.Lock()
	expired := make(map[string]V)
	for key, e := range s.entries {
		if s.expired(e, now) {
			expired[key] = e.value
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	for key, value := range expired {
		s.evict(key, value)
	}
	return len(expired)
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Store[V]) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Close evicts every entry regardless of its deadline.
func (s *Store[V]) Close() {
	s.mu.Lock()
	all := s.entries
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()

	for key, e := range all {
		s.evict(key, e.value)
	}
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

func (s *Store[V]) deadline(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

func (s *Store[V]) evict(key string, value V) {
	if s.onEvict != nil {
		s.onEvict(key, value)
	}
}
