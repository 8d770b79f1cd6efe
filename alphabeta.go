// Package alphabeta picks chess moves by fixed-depth minimax search with
// alpha-beta pruning over a material evaluation.
//
// Example usage:
//
//	engine, err := alphabeta.New(alphabeta.WithDepth(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	choice, err := engine.BestMove("r1b1kb1r/ppp2ppp/2n1pn2/1B1pq3/3PPQ2/2N5/PPP2PPP/R1B1K1NR w KQkq - 0 7")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s %s\n", choice.Move, choice.Score)
package alphabeta

import (
	"context"
	"errors"
	"fmt"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/board/chessboard"
	"github.com/discochess/alphabeta/internal/eval"
	"github.com/discochess/alphabeta/internal/search"
	"github.com/discochess/alphabeta/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrGameOver indicates a move was requested in a finished or drawn
	// position.
	ErrGameOver = errors.New("alphabeta: game is over")

	// ErrInvalidFEN indicates the FEN string could not be parsed.
	ErrInvalidFEN = errors.New("alphabeta: invalid FEN")

	// ErrInvalidDepth indicates a search depth outside [0, MaxDepth].
	ErrInvalidDepth = search.ErrInvalidDepth

	// ErrInvalidWeights indicates a weight table with a negative value.
	ErrInvalidWeights = eval.ErrInvalidWeights
)

// MaxDepth is the deepest search an Engine accepts.
const MaxDepth = search.MaxDepth

// Engine chooses moves for the side to move.
// An Engine keeps no per-position state and is safe for concurrent use.
type Engine struct {
	depth     int
	evaluator *eval.Evaluator
	searcher  *search.Searcher
	stats     stats.Collector
	logger    *zap.Logger
}

// New creates an Engine with the given options.
// Without options it searches two plies below each root move with the
// default weights.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.depth < 0 || cfg.depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDepth, cfg.depth, MaxDepth)
	}
	if err := cfg.weights.Validate(); err != nil {
		return nil, err
	}

	evaluator := eval.NewEvaluator(cfg.weights)
	e := &Engine{
		depth:     cfg.depth,
		evaluator: evaluator,
		searcher: search.New(evaluator,
			search.WithStats(cfg.stats),
			search.WithLogger(cfg.logger.Named("search")),
		),
		stats:  cfg.stats,
		logger: cfg.logger,
	}

	e.logger.Debug("engine initialized",
		zap.Int("depth", e.depth),
		zap.Any("weights", cfg.weights),
	)

	return e, nil
}

// Name identifies the engine in game records and logs.
func (e *Engine) Name() string {
	return fmt.Sprintf("alphabeta depth %d", e.depth)
}

// Depth returns the number of plies searched below each root move.
func (e *Engine) Depth() int {
	return e.depth
}

// Weights returns the piece weights in use.
func (e *Engine) Weights() Weights {
	return e.evaluator.Weights()
}

// Evaluate returns the static score of a FEN position without searching.
func (e *Engine) Evaluate(fen string) (Score, error) {
	b, err := parseFEN(fen)
	if err != nil {
		return 0, err
	}
	return e.evaluator.Evaluate(b), nil
}

// BestMove searches a FEN position and returns the move for the side to
// move. It returns ErrGameOver if the position is finished or drawn.
func (e *Engine) BestMove(fen string) (*Choice, error) {
	b, err := parseFEN(fen)
	if err != nil {
		return nil, err
	}
	return e.choose(b)
}

// BestMoveInGame is BestMove for the current position of g. Positions
// already played in g count towards repetition draws. g is not modified.
func (e *Engine) BestMoveInGame(g *chess.Game) (*Choice, error) {
	return e.choose(chessboard.FromGame(g))
}

// Move returns the engine's move for the current position of g.
// The search itself is not interruptible; ctx is checked before it starts.
func (e *Engine) Move(ctx context.Context, g *chess.Game) (*chess.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	choice, err := e.BestMoveInGame(g)
	if err != nil {
		return nil, err
	}
	return choice.Move, nil
}

func (e *Engine) choose(b *chessboard.Board) (*Choice, error) {
	if b.IsGameOver() || eval.IsDraw(b) {
		e.stats.IncCounter(stats.MetricGameOver, 1)
		return nil, fmt.Errorf("%w: %s", ErrGameOver, b.FEN())
	}

	sel, err := e.searcher.Select(b, e.depth, b.WhiteToMove())
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", b.FEN(), err)
	}

	choice := &Choice{
		Move:    sel.Best.Move.(*chess.Move),
		Score:   sel.Best.Score,
		Depth:   e.depth,
		Nodes:   sel.Counters.Nodes,
		Ranking: make([]Ranked, len(sel.Ranking)),
	}
	for i, r := range sel.Ranking {
		choice.Ranking[i] = Ranked{Move: r.Move.(*chess.Move), Score: r.Score}
	}
	return choice, nil
}

func parseFEN(fen string) (*chessboard.Board, error) {
	b, err := chessboard.FromFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	return b, nil
}
