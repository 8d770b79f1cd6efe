package match

import (
	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/stats"
)

// Option configures a Match.
type Option interface {
	apply(*options)
}

type options struct {
	advisor  Mover
	advise   chess.Color
	maxPlies int
	onPly    func(Ply)
	stats    stats.Collector
	logger   *zap.Logger
}

func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithAdvisor asks advisor for its move whenever side is to move, before
// the move is played, and records the answer on the Ply. chess.NoColor
// advises both sides. Advisor errors are logged and otherwise ignored.
func WithAdvisor(advisor Mover, side chess.Color) Option {
	return optionFunc(func(o *options) {
		o.advisor = advisor
		o.advise = side
	})
}

// WithMaxPlies stops the match after n plies. Zero means no limit.
func WithMaxPlies(n int) Option {
	return optionFunc(func(o *options) {
		o.maxPlies = n
	})
}

// WithPlyHook calls fn after every ply.
func WithPlyHook(fn func(Ply)) Option {
	return optionFunc(func(o *options) {
		o.onPly = fn
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
