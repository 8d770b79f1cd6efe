// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Search metrics.
	MetricSearchNodes   = "alphabeta_search_nodes_total"
	MetricSearchLeaves  = "alphabeta_search_leaves_total"
	MetricSearchCutoffs = "alphabeta_search_cutoffs_total"
	MetricSelections    = "alphabeta_selections_total"
	MetricSearchSeconds = "alphabeta_search_seconds"
	MetricGameOver      = "alphabeta_game_over_total"

	// Reference engine metrics.
	MetricReferenceRequests = "alphabeta_reference_requests_total"
	MetricReferenceSeconds  = "alphabeta_reference_seconds"

	// Cache metrics.
	MetricCacheHits   = "alphabeta_cache_hits_total"
	MetricCacheMisses = "alphabeta_cache_misses_total"
	MetricCacheSize   = "alphabeta_cache_size"

	// Match and archive metrics.
	MetricMatchPlies    = "alphabeta_match_plies_total"
	MetricMatchGames    = "alphabeta_match_games_total"
	MetricArchiveWrites = "alphabeta_archive_writes_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
