package search

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/board"
	"github.com/discochess/alphabeta/internal/eval"
	"github.com/discochess/alphabeta/internal/stats"
)

// Result pairs a root move with the score of the position it leads to.
type Result struct {
	Move  board.Move
	Score eval.Score
}

// Selection is the outcome of a root search.
type Selection struct {
	// Best is the chosen move.
	Best Result

	// Ranking holds every root move in ascending score order. Moves with
	// equal scores keep their enumeration order.
	Ranking []Result

	Counters Counters
}

// Rank searches every legal move of pos and returns them in ascending score
// order, stable on ties. Each root move opens a full window; nothing is
// carried over between sibling root moves.
func (s *Searcher) Rank(pos board.Position, depth int) ([]Result, error) {
	ranking, _, err := s.rank(pos, depth)
	return ranking, err
}

func (s *Searcher) rank(pos board.Position, depth int) ([]Result, Counters, error) {
	if err := checkDepth(depth); err != nil {
		return nil, Counters{}, err
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil, Counters{}, ErrNoLegalMoves
	}

	r := s.newRun()
	defer s.flush(r)

	results := make([]Result, 0, len(moves))
	for _, m := range moves {
		score, err := r.child(pos, m, depth, eval.BlackMates, eval.WhiteMates)
		if err != nil {
			return nil, r.Counters, fmt.Errorf("searching %s: %w", m, err)
		}
		results = append(results, Result{Move: m, Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return results, r.Counters, nil
}

// SelectBestMove returns the best move for the given side: the highest
// score for White, the lowest for Black. Ties go to the move enumerated
// first for both sides. For White that is the first of the top-scoring
// moves, not the last entry of the ascending ranking.
func (s *Searcher) SelectBestMove(pos board.Position, depth int, whiteToMove bool) (Result, error) {
	sel, err := s.Select(pos, depth, whiteToMove)
	if err != nil {
		return Result{}, err
	}
	return sel.Best, nil
}

// Select is SelectBestMove that also returns the full ranking and the
// search counters.
func (s *Searcher) Select(pos board.Position, depth int, whiteToMove bool) (*Selection, error) {
	ranking, counters, err := s.rank(pos, depth)
	if err != nil {
		return nil, err
	}

	best := Pick(ranking, whiteToMove)
	s.stats.IncCounter(stats.MetricSelections, 1)
	s.logger.Info("best move",
		zap.Stringer("move", best.Move),
		zap.Stringer("score", best.Score),
		zap.Int("depth", depth),
		zap.Int64("nodes", counters.Nodes),
	)

	return &Selection{Best: best, Ranking: ranking, Counters: counters}, nil
}

// Pick returns the extremum of an ascending, stable ranking: the first
// entry for Black, and the first entry of the top-scoring run for White.
// Either way the earliest enumerated move wins a tie. ranking must not be
// empty.
func Pick(ranking []Result, whiteToMove bool) Result {
	if !whiteToMove {
		return ranking[0]
	}
	i := len(ranking) - 1
	for i > 0 && ranking[i-1].Score == ranking[i].Score {
		i--
	}
	return ranking[i]
}
