// Package lru implements an LRU cache eviction strategy.
package lru

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/alphabeta/internal/cache"
)

// Compile-time check that Strategy implements cache.Strategy.
var _ cache.Strategy[string, string] = (*Strategy[string, string])(nil)

// Strategy implements LRU eviction.
type Strategy[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

// New creates a new LRU strategy with the given capacity.
func New[K comparable, V any](capacity int) (*Strategy[K, V], error) {
	c, err := lru.New[K, V](capacity)
	if err != nil {
		return nil, err
	}
	return &Strategy[K, V]{cache: c}, nil
}

// Get retrieves a value by key and marks it recently used.
func (s *Strategy[K, V]) Get(key K) (V, bool) {
	return s.cache.Get(key)
}

// Add adds a value to the cache. It reports whether an entry was evicted.
func (s *Strategy[K, V]) Add(key K, value V) bool {
	return s.cache.Add(key, value)
}

// Len returns the number of items in the cache.
func (s *Strategy[K, V]) Len() int {
	return s.cache.Len()
}
