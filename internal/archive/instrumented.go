package archive

import (
	"context"

	"github.com/discochess/alphabeta/internal/stats"
)

// Compile-time check that Instrumented implements Store.
var _ Store = (*Instrumented)(nil)

// Instrumented counts successful writes to a Store.
type Instrumented struct {
	Store
	stats stats.Collector
}

// WithStats wraps s so that every successful Put increments
// stats.MetricArchiveWrites.
func WithStats(s Store, c stats.Collector) *Instrumented {
	return &Instrumented{Store: s, stats: c}
}

// Put stores the record and counts the write.
func (s *Instrumented) Put(ctx context.Context, id string, pgn []byte) error {
	if err := s.Store.Put(ctx, id, pgn); err != nil {
		return err
	}
	s.stats.IncCounter(stats.MetricArchiveWrites, 1)
	return nil
}
