// Package enginefx provides an fx module for an alphabeta engine.
package enginefx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta"
	"github.com/discochess/alphabeta/internal/stats"
	"github.com/discochess/alphabeta/internal/stats/logger"
)

// Config holds configuration for the engine.
type Config struct {
	// Depth overrides the search depth in plies below each root move when
	// non-nil. Zero is a valid depth. Default is alphabeta.DefaultDepth.
	Depth *int

	// Weights overrides the material weights when non-nil.
	Weights *alphabeta.Weights
}

// Module provides an *alphabeta.Engine.
// Requires a *zap.Logger and a Config to be provided. A stats.Collector
// is used when provided; otherwise stats are logged at debug level.
var Module = fx.Module("alphabeta",
	fx.Provide(newEngine),
)

func newStatsCollector(p Params) stats.Collector {
	if p.Collector != nil {
		return p.Collector
	}
	return logger.New(p.Logger.Named("alphabeta.stats"))
}

// Params holds dependencies for creating the engine.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector `optional:"true"`
}

// Result holds the provided engine.
type Result struct {
	fx.Out

	Engine *alphabeta.Engine
}

func newEngine(p Params) (Result, error) {
	collector := newStatsCollector(p)
	opts := []alphabeta.Option{
		alphabeta.WithStats(collector),
		alphabeta.WithLogger(p.Logger.Named("alphabeta")),
	}
	if p.Config.Depth != nil {
		opts = append(opts, alphabeta.WithDepth(*p.Config.Depth))
	}
	if p.Config.Weights != nil {
		opts = append(opts, alphabeta.WithWeights(*p.Config.Weights))
	}

	engine, err := alphabeta.New(opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Engine: engine}, nil
}
