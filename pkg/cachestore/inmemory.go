package cachestore

import (
	"context"
	"sync"
)

// InMemoryStore is a generic, thread-safe, in-memory record store. It is the
// default backend for device-local caching and for tests.
type InMemoryStore[K Key, V any] struct {
	mu   sync.RWMutex
	data map[K]Record[V]
}

// NewInMemoryStore creates a new in-memory record store.
func NewInMemoryStore[K Key, V any]() *InMemoryStore[K, V] {
	return &InMemoryStore[K, V]{
		data: make(map[K]Record[V]),
	}
}

// Query fetches the record for key, reporting a miss with false.
func (s *InMemoryStore[K, V]) Query(_ context.Context, key K) (Record[V], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[key]
	return record, ok, nil
}

// Clear removes the record for key, if any.
func (s *InMemoryStore[K, V]) Clear(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Insert persists record under key.
func (s *InMemoryStore[K, V]) Insert(_ context.Context, key K, record Record[V]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = record
	return nil
}

// Len returns the number of cached records.
func (s *InMemoryStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
