// Package archivefx provides an fx module for a game archive.
package archivefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/archive/archiveurl"
	"github.com/discochess/alphabeta/internal/stats"
	"github.com/discochess/alphabeta/internal/stats/logger"
)

// Config holds configuration for the archive.
type Config struct {
	// Location is a directory or a mem://, file://, gs:// or s3:// URL.
	Location string

	// Codec names the compression: zstd, gzip or none. Default is zstd.
	Codec string
}

// Module provides an archive.Store that is closed on stop.
// Requires a *zap.Logger and a Config to be provided. A stats.Collector
// is used when provided; otherwise stats are logged at debug level.
var Module = fx.Module("archive",
	fx.Provide(newStore),
)

func newStatsCollector(p Params) stats.Collector {
	if p.Collector != nil {
		return p.Collector
	}
	return logger.New(p.Logger.Named("archive.stats"))
}

// Params holds dependencies for creating the store.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector `optional:"true"`
	Lifecycle fx.Lifecycle
}

// Result holds the provided store.
type Result struct {
	fx.Out

	Store archive.Store
}

func newStore(p Params) (Result, error) {
	collector := newStatsCollector(p)
	name := p.Config.Codec
	if name == "" {
		name = "zstd"
	}
	c, err := archiveurl.Codec(name)
	if err != nil {
		return Result{}, err
	}

	st, err := archiveurl.Open(context.Background(), p.Config.Location, c)
	if err != nil {
		return Result{}, err
	}
	p.Logger.Debug("archive opened",
		zap.String("location", p.Config.Location),
		zap.String("codec", name),
	)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return st.Close()
		},
	})

	return Result{Store: archive.WithStats(st, collector)}, nil
}
