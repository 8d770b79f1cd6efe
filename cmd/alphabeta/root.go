package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	verbose         bool
	archiveLocation string
	compression     string
)

var rootCmd = &cobra.Command{
	Use:   "alphabeta",
	Short: "Fixed-depth alpha-beta chess move selection",
	Long: `alphabeta scores chess positions by material and picks moves with a
fixed-depth minimax search with alpha-beta pruning.

Examples:
  # Score a position
  alphabeta eval "r1b1kb1r/ppp2ppp/2n1pn2/1B1pq3/3PPQ2/2N5/PPP2PPP/R1B1K1NR w KQkq - 0 7"

  # Pick a move, searching three plies below each candidate
  alphabeta best --depth 3 "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"

  # Play Stockfish and keep the game
  alphabeta match --engine stockfish --movetime 1s --archive ./archive

  # Browse kept games
  alphabeta games list --archive ./archive`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&archiveLocation, "archive", "a", "", "game archive: directory, mem://, badger://dir, gs://bucket/prefix or s3://bucket/prefix")
	rootCmd.PersistentFlags().StringVar(&compression, "compress", "zstd", "archive compression: zstd, gzip, none")
}

// newLogger returns a development logger when verbose, otherwise a
// production logger that only reports warnings and errors.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
