// Package memory implements an in-memory cache backend.
package memory

import (
	"sync/atomic"

	"github.com/discochess/alphabeta/internal/cache"
	"github.com/discochess/alphabeta/internal/stats"
)

// Compile-time check that Backend implements cache.Backend.
var _ cache.Backend[string, string] = (*Backend[string, string])(nil)

// Backend is a thread-safe in-memory cache backend.
type Backend[K comparable, V any] struct {
	strategy  cache.Strategy[K, V]
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new memory backend with the given eviction strategy.
// The strategy must be safe for concurrent use. The collector is optional;
// if nil, a no-op collector is used.
func New[K comparable, V any](strategy cache.Strategy[K, V], collector stats.Collector) *Backend[K, V] {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend[K, V]{
		strategy:  strategy,
		collector: collector,
	}
}

// Get retrieves a value from the cache.
func (b *Backend[K, V]) Get(key K) (V, bool) {
	val, ok := b.strategy.Get(key)
	if ok {
		b.hits.Add(1)
		b.collector.IncCounter(stats.MetricCacheHits, 1)
		return val, true
	}
	b.misses.Add(1)
	b.collector.IncCounter(stats.MetricCacheMisses, 1)
	var zero V
	return zero, false
}

// Set stores a value in the cache.
func (b *Backend[K, V]) Set(key K, value V) {
	b.strategy.Add(key, value)
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.strategy.Len()))
}

// Stats returns current cache statistics.
func (b *Backend[K, V]) Stats() cache.Stats {
	return cache.Stats{
		Hits:   b.hits.Load(),
		Misses: b.misses.Load(),
		Size:   b.strategy.Len(),
	}
}
