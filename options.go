package alphabeta

import (
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/eval"
	"github.com/discochess/alphabeta/internal/stats"
)

// DefaultDepth is the number of plies searched below each root move when
// WithDepth is not given.
const DefaultDepth = 2

// Option configures an Engine.
type Option interface {
	apply(*options)
}

// options holds the engine configuration.
type options struct {
	depth   int
	weights Weights
	stats   stats.Collector
	logger  *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		depth:   DefaultDepth,
		weights: eval.DefaultWeights(),
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithDepth sets the number of plies searched below each root move.
// Depth 0 scores each root move by the position it leads to.
func WithDepth(depth int) Option {
	return optionFunc(func(o *options) {
		o.depth = depth
	})
}

// WithWeights sets the piece weights.
// If not set, DefaultWeights is used.
func WithWeights(w Weights) Option {
	return optionFunc(func(o *options) {
		o.weights = w
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
