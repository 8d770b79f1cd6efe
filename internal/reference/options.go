package reference

import (
	"time"

	"github.com/notnil/chess/uci"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/cache"
	"github.com/discochess/alphabeta/internal/stats"
)

// DefaultLimit gives the engine one second per move.
var DefaultLimit = Limit{MoveTime: time.Second}

// Option configures an Engine.
type Option interface {
	apply(*options)
}

type options struct {
	name       string
	limit      Limit
	setOptions []uci.CmdSetOption
	cache      cache.Backend[string, string]
	stats      stats.Collector
	logger     *zap.Logger
}

func defaultOptions() options {
	return options{
		limit:  DefaultLimit,
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithName overrides the name reported by the engine.
func WithName(name string) Option {
	return optionFunc(func(o *options) {
		o.name = name
	})
}

// WithLimit sets the per-move search limit.
// If not set, DefaultLimit is used.
func WithLimit(l Limit) Option {
	return optionFunc(func(o *options) {
		o.limit = l
	})
}

// WithSetOption sends "setoption name <name> value <value>" during the
// handshake, e.g. WithSetOption("Skill Level", "5").
func WithSetOption(name, value string) Option {
	return optionFunc(func(o *options) {
		o.setOptions = append(o.setOptions, uci.CmdSetOption{Name: name, Value: value})
	})
}

// WithCache reuses proposals for positions seen before with the same
// positions still open to repetition. Only fixed-depth limits are cached.
func WithCache(c cache.Backend[string, string]) Option {
	return optionFunc(func(o *options) {
		o.cache = c
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
