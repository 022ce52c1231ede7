// Package history keeps a bounded, most-recently-used record of results by id.
package history

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 256

// Store is a typed wrapper over an LRU cache. It is safe for concurrent use.
type Store[T any] struct {
	cache *lru.Cache
}

// New creates a store holding at most size entries.
func New[T any](size int) *Store[T] {
	if size <= 0 {
		size = DefaultSize
	}

	cache, err := lru.New(size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}

	return &Store[T]{cache: cache}
}

// Add records v under id, evicting the least recently used entry when full.
func (s *Store[T]) Add(id string, v T) { s.cache.Add(id, v) }

// Get returns the entry for id.
func (s *Store[T]) Get(id string) (T, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		var zero T
		return zero, false
	}

	return v.(T), true
}

// Len returns the number of entries held.
func (s *Store[T]) Len() int { return s.cache.Len() }
