// Package referencefx provides an fx module for a UCI reference engine.
package referencefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/cache/lru"
	"github.com/discochess/alphabeta/internal/cache/memory"
	"github.com/discochess/alphabeta/internal/reference"
	"github.com/discochess/alphabeta/internal/stats"
	"github.com/discochess/alphabeta/internal/stats/logger"
)

// Config holds configuration for the reference engine.
type Config struct {
	// Path is the engine binary, looked up on PATH if it has no slash.
	Path string

	// Limit bounds each search. Default is reference.DefaultLimit.
	Limit reference.Limit

	// Options are passed to the engine with setoption.
	Options map[string]string

	// CacheSize is the number of answers to cache for fixed-depth limits.
	// Default is 1024. Negative disables the cache.
	CacheSize int
}

// Module provides a *reference.Engine that is closed on stop.
// Requires a *zap.Logger and a Config to be provided. A stats.Collector
// is used when provided; otherwise stats are logged at debug level.
var Module = fx.Module("reference",
	fx.Provide(newEngine),
)

func newStatsCollector(p Params) stats.Collector {
	if p.Collector != nil {
		return p.Collector
	}
	return logger.New(p.Logger.Named("reference.stats"))
}

// Params holds dependencies for creating the engine.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector `optional:"true"`
	Lifecycle fx.Lifecycle
}

// Result holds the provided engine.
type Result struct {
	fx.Out

	Engine *reference.Engine
}

func newEngine(p Params) (Result, error) {
	collector := newStatsCollector(p)
	opts := []reference.Option{
		reference.WithStats(collector),
		reference.WithLogger(p.Logger.Named("reference")),
	}
	if p.Config.Limit != (reference.Limit{}) {
		opts = append(opts, reference.WithLimit(p.Config.Limit))
	}
	for name, value := range p.Config.Options {
		opts = append(opts, reference.WithSetOption(name, value))
	}

	cacheSize := p.Config.CacheSize
	if cacheSize == 0 {
		cacheSize = 1024
	}
	if cacheSize > 0 {
		strategy, err := lru.New[string, string](cacheSize)
		if err != nil {
			return Result{}, err
		}
		opts = append(opts, reference.WithCache(memory.New(strategy, collector)))
	}

	engine, err := reference.New(p.Config.Path, opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return engine.Close()
		},
	})

	return Result{Engine: engine}, nil
}
