// Package search implements fixed-depth minimax with alpha-beta pruning over
// a board.Position, and root move selection on top of it.
//
// White maximises and Black minimises the score; there is no move ordering,
// no transposition table and no quiescence search. Every move pushed onto
// the position is popped before the call that pushed it returns, so callers
// get their position back unchanged.
package search

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/board"
	"github.com/discochess/alphabeta/internal/eval"
	"github.com/discochess/alphabeta/internal/stats"
)

// MaxDepth bounds the depth a caller may request.
const MaxDepth = 16

var (
	// ErrInvalidDepth indicates a depth outside [0, MaxDepth].
	ErrInvalidDepth = errors.New("search: invalid depth")

	// ErrInvalidWindow indicates alpha > beta or a NaN bound.
	ErrInvalidWindow = errors.New("search: invalid alpha-beta window")

	// ErrNoLegalMoves indicates move selection on a position without moves.
	ErrNoLegalMoves = errors.New("search: no legal moves")

	// ErrInconsistentPosition indicates a position that is neither over nor
	// drawn but has no legal moves.
	ErrInconsistentPosition = errors.New("search: position is not over but has no legal moves")
)

// Searcher scores positions by minimax search. It holds no per-search
// state and may be shared, but each position must only be searched by one
// goroutine at a time.
type Searcher struct {
	evaluator *eval.Evaluator
	stats     stats.Collector
	logger    *zap.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(s *Searcher) {
		s.stats = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) {
		s.logger = l
	}
}

// New creates a Searcher that bottoms out on evaluator.
func New(evaluator *eval.Evaluator, opts ...Option) *Searcher {
	s := &Searcher{
		evaluator: evaluator,
		stats:     stats.NewNoop(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Counters reports the work done by one search.
type Counters struct {
	Nodes   int64 // positions visited, including leaves
	Leaves  int64 // positions scored by the evaluator
	Cutoffs int64 // move loops stopped early by pruning
}

// Search returns the minimax score of pos searched depth plies deep within
// the window [alpha, beta]. With the full window the result equals an
// unpruned minimax over the same tree.
func (s *Searcher) Search(pos board.Position, depth int, alpha, beta eval.Score) (eval.Score, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	if err := checkWindow(alpha, beta); err != nil {
		return 0, err
	}

	r := s.newRun()
	score, err := r.minimax(pos, depth, alpha, beta)
	s.flush(r)
	return score, err
}

// run carries the counters of a single top-level call.
type run struct {
	evaluator *eval.Evaluator
	start     time.Time
	Counters
}

func (s *Searcher) newRun() *run {
	return &run{evaluator: s.evaluator, start: time.Now()}
}

func (r *run) minimax(pos board.Position, depth int, alpha, beta eval.Score) (eval.Score, error) {
	r.Nodes++

	if depth == 0 || pos.IsGameOver() || eval.IsDraw(pos) {
		r.Leaves++
		return r.evaluator.Evaluate(pos), nil
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return 0, fmt.Errorf("%w (%d plies above the horizon)", ErrInconsistentPosition, depth)
	}

	if pos.WhiteToMove() {
		best := eval.BlackMates
		for _, m := range moves {
			score, err := r.child(pos, m, depth-1, alpha, beta)
			if err != nil {
				return 0, err
			}
			best = max(best, score)
			alpha = max(alpha, best)
			if beta <= alpha {
				r.Cutoffs++
				break
			}
		}
		return best, nil
	}

	best := eval.WhiteMates
	for _, m := range moves {
		score, err := r.child(pos, m, depth-1, alpha, beta)
		if err != nil {
			return 0, err
		}
		best = min(best, score)
		beta = min(beta, best)
		if beta <= alpha {
			r.Cutoffs++
			break
		}
	}
	return best, nil
}

// child scores the position after m. The deferred Pop restores pos on
// every return path, including errors and panics further down.
func (r *run) child(pos board.Position, m board.Move, depth int, alpha, beta eval.Score) (eval.Score, error) {
	pos.Push(m)
	defer pos.Pop()
	return r.minimax(pos, depth, alpha, beta)
}

func (s *Searcher) flush(r *run) {
	s.stats.IncCounter(stats.MetricSearchNodes, r.Nodes)
	s.stats.IncCounter(stats.MetricSearchLeaves, r.Leaves)
	s.stats.IncCounter(stats.MetricSearchCutoffs, r.Cutoffs)
	s.stats.ObserveHistogram(stats.MetricSearchSeconds, time.Since(r.start).Seconds())
}

func checkDepth(depth int) error {
	if depth < 0 || depth > MaxDepth {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDepth, depth, MaxDepth)
	}
	return nil
}

func checkWindow(alpha, beta eval.Score) error {
	if math.IsNaN(float64(alpha)) || math.IsNaN(float64(beta)) || alpha > beta {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidWindow, alpha, beta)
	}
	return nil
}
