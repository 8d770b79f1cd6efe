// Package cache defines the caching interfaces used for reference-engine
// proposals.
package cache

// Backend stores values with hit and miss accounting.
// Implementations handle storage and delegate eviction to a Strategy.
type Backend[K comparable, V any] interface {
	// Get retrieves a cached value. Returns the zero value, false if not found.
	Get(key K) (V, bool)

	// Set stores a value in the cache.
	Set(key K, value V)

	// Stats returns cache statistics.
	Stats() Stats
}

// Strategy is a bounded map that decides which entries to evict.
type Strategy[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, value V) bool
	Len() int
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
