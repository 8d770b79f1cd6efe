package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/notnil/chess"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta"
	"github.com/discochess/alphabeta/fx/archivefx"
	"github.com/discochess/alphabeta/fx/enginefx"
	"github.com/discochess/alphabeta/fx/referencefx"
	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/match"
	"github.com/discochess/alphabeta/internal/reference"
	"github.com/discochess/alphabeta/internal/stats"
	promstats "github.com/discochess/alphabeta/internal/stats/prometheus"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Play a game against a UCI engine",
	Long: `Play alphabeta against a UCI engine such as Stockfish until the game
is over, drawn or the ply limit is reached.

The game starts from the standard position, from --fen, or from the end of
the game in --pgn. With --advisor the opponent is also asked what it would
play in alphabeta's positions, and the agreement rate is reported.

Examples:
  # One second per Stockfish move, alphabeta searching two plies
  alphabeta match --engine stockfish --movetime 1s

  # Continue a position as Black and keep the game
  alphabeta match --color black --fen "r1b1kb1r/ppp2ppp/2n1pn2/1B1pq3/3PPQ2/2N5/PPP2PPP/R1B1K1NR w KQkq - 0 7" --archive ./archive

  # Expose Prometheus metrics while playing
  alphabeta match --metrics-addr :9090`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

var (
	matchFEN     string
	matchPGN     string
	enginePath   string
	engineDepth  int
	moveTime     time.Duration
	engineColor  string
	useAdvisor   bool
	maxPlies     int
	matchDepth   int
	metricsAddr  string
	showProgress bool
)

func init() {
	matchCmd.Flags().StringVar(&matchFEN, "fen", "", "starting position")
	matchCmd.Flags().StringVar(&matchPGN, "pgn", "", "PGN file whose game is continued")
	matchCmd.Flags().StringVar(&enginePath, "engine", "stockfish", "UCI engine binary")
	matchCmd.Flags().IntVar(&engineDepth, "engine-depth", 0, "fixed search depth for the engine; overrides --movetime")
	matchCmd.Flags().DurationVar(&moveTime, "movetime", reference.DefaultLimit.MoveTime, "engine thinking time per move")
	matchCmd.Flags().StringVar(&engineColor, "color", "white", "side alphabeta plays: white or black")
	matchCmd.Flags().BoolVar(&useAdvisor, "advisor", false, "ask the engine for its move in alphabeta's positions")
	matchCmd.Flags().IntVar(&maxPlies, "max-plies", 0, "stop after this many plies; 0 plays to the end")
	matchCmd.Flags().IntVar(&matchDepth, "depth", alphabeta.DefaultDepth, "plies alphabeta searches below each candidate move")
	matchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	matchCmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar; needs --max-plies")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	color, err := parseColor(engineColor)
	if err != nil {
		return err
	}
	game, err := startingGame()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		engine *alphabeta.Engine
		ref    *reference.Engine
		store  archive.Store
	)
	limit := reference.Limit{MoveTime: moveTime}
	if engineDepth > 0 {
		limit = reference.Limit{Depth: engineDepth}
	}
	opts := []fx.Option{
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Supply(log),
		fx.Supply(enginefx.Config{Depth: &matchDepth}),
		fx.Supply(referencefx.Config{Path: enginePath, Limit: limit}),
		enginefx.Module,
		referencefx.Module,
		fx.Populate(&engine, &ref),
	}
	if archiveLocation != "" {
		opts = append(opts,
			fx.Supply(archivefx.Config{Location: archiveLocation, Codec: compression}),
			archivefx.Module,
			fx.Populate(&store),
		)
	}
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector := promstats.New(reg)
		opts = append(opts, fx.Supply(fx.Annotate(collector, fx.As(new(stats.Collector)))))

		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	app := fx.New(opts...)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Stop(context.Background())

	var white, black match.Mover = engine, ref
	if color == chess.Black {
		white, black = ref, engine
	}
	game.AddTagPair("Event", "alphabeta match")
	game.AddTagPair("Date", time.Now().Format("2006.01.02"))
	game.AddTagPair("White", white.Name())
	game.AddTagPair("Black", black.Name())

	matchOpts := []match.Option{
		match.WithMaxPlies(maxPlies),
		match.WithLogger(log.Named("match")),
	}
	if useAdvisor {
		matchOpts = append(matchOpts, match.WithAdvisor(ref, color))
	}
	if showProgress && maxPlies > 0 {
		bar := progressbar.Default(int64(maxPlies), "plies")
		defer bar.Finish()
		matchOpts = append(matchOpts, match.WithPlyHook(func(match.Ply) { bar.Add(1) }))
	}

	m, err := match.New(white, black, matchOpts...)
	if err != nil {
		return err
	}
	res, playErr := m.Play(ctx, game)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, res.Summary())
	fmt.Fprintln(out)
	fmt.Fprint(out, string(archive.EncodeGame(game)))

	if store != nil && len(res.Plies) > 0 {
		id := archive.NewID(time.Now())
		if err := store.Put(context.Background(), id, archive.EncodeGame(game)); err != nil {
			return errors.Join(playErr, fmt.Errorf("archiving game: %w", err))
		}
		fmt.Fprintf(out, "\nSaved as %s\n", id)
	}
	return playErr
}

func parseColor(s string) (chess.Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return chess.White, nil
	case "black", "b":
		return chess.Black, nil
	}
	return chess.NoColor, fmt.Errorf("unknown color %q: want white or black", s)
}

// startingGame builds the game to continue from --fen or --pgn.
func startingGame() (*chess.Game, error) {
	switch {
	case matchFEN != "" && matchPGN != "":
		return nil, errors.New("--fen and --pgn are mutually exclusive")
	case matchFEN != "":
		opt, err := chess.FEN(matchFEN)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", alphabeta.ErrInvalidFEN, matchFEN)
		}
		return chess.NewGame(opt), nil
	case matchPGN != "":
		data, err := os.ReadFile(matchPGN)
		if err != nil {
			return nil, fmt.Errorf("reading PGN: %w", err)
		}
		return archive.DecodeGame(data)
	}
	return chess.NewGame(), nil
}
