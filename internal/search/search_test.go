package search

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/discochess/alphabeta/internal/board/chessboard"
	"github.com/discochess/alphabeta/internal/eval"
	"github.com/discochess/alphabeta/internal/stats"
)

var fullWindow = [2]eval.Score{eval.BlackMates, eval.WhiteMates}

func TestSearch_MatchesPlainMinimax(t *testing.T) {
	e := unitEvaluator()
	s := New(e)

	for seed := int64(1); seed <= 60; seed++ {
		rng := rand.New(rand.NewSource(seed))
		root := randomTree(rng, 5)
		white := seed%2 == 0

		for depth := 0; depth <= 5; depth++ {
			want := plainMinimax(e, newTree(root, white), depth)

			pos := newTree(root, white)
			got, err := s.Search(pos, depth, fullWindow[0], fullWindow[1])
			if err != nil {
				t.Fatalf("seed %d depth %d: Search() error = %v", seed, depth, err)
			}
			if got != want {
				t.Errorf("seed %d depth %d: Search() = %v, want %v", seed, depth, got, want)
			}
			if pos.pushes != pos.pops || len(pos.path) != 1 {
				t.Errorf("seed %d depth %d: %d pushes, %d pops, path length %d",
					seed, depth, pos.pushes, pos.pops, len(pos.path))
			}
		}
	}
}

func TestSearch_Prunes(t *testing.T) {
	// max(min(3, 12, 8), min(2, 4, 6), min(14, 5, 2)) = 3. Once the second
	// reply scores 2 its siblings cannot matter.
	root := branch(
		branch(leaf(3), leaf(12), leaf(8)),
		branch(leaf(2), leaf(4), leaf(6)),
		branch(leaf(14), leaf(5), leaf(2)),
	)
	rec := stats.NewRecorder()
	s := New(unitEvaluator(), WithStats(rec))

	got, err := s.Search(newTree(root, true), 2, fullWindow[0], fullWindow[1])
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != 3 {
		t.Errorf("Search() = %v, want 3", got)
	}
	if n := rec.Counter(stats.MetricSearchLeaves); n != 7 {
		t.Errorf("leaves = %d, want 7", n)
	}
	if n := rec.Counter(stats.MetricSearchNodes); n != 11 {
		t.Errorf("nodes = %d, want 11", n)
	}
	if n := rec.Counter(stats.MetricSearchCutoffs); n < 1 {
		t.Errorf("cutoffs = %d, want at least 1", n)
	}
	if obs := rec.Observations(stats.MetricSearchSeconds); len(obs) != 1 {
		t.Errorf("got %d duration observations, want 1", len(obs))
	}
}

func TestSearch_DepthZeroIsEvaluate(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1",
		"R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	}
	e := eval.NewEvaluator(eval.DefaultWeights())
	s := New(e)

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			b, err := chessboard.FromFEN(fen)
			if err != nil {
				t.Fatalf("FromFEN() error = %v", err)
			}
			got, err := s.Search(b, 0, fullWindow[0], fullWindow[1])
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if want := e.Evaluate(b); got != want {
				t.Errorf("Search() = %v, want %v", got, want)
			}
		})
	}
}

func TestSearch_TerminalRootIgnoresDepth(t *testing.T) {
	tests := []struct {
		name  string
		root  *node
		white bool
		want  eval.Score
	}{
		{name: "white mated", root: &node{mate: true}, white: true, want: eval.BlackMates},
		{name: "black mated", root: &node{mate: true}, white: false, want: eval.WhiteMates},
		{name: "stalemate", root: &node{stale: true, score: 9}, white: true, want: eval.Draw},
	}

	s := New(unitEvaluator())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, depth := range []int{0, 1, 4} {
				got, err := s.Search(newTree(tt.root, tt.white), depth, fullWindow[0], fullWindow[1])
				if err != nil {
					t.Fatalf("Search() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("depth %d: Search() = %v, want %v", depth, got, tt.want)
				}
			}
		})
	}
}

func TestSearch_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		alpha eval.Score
		beta  eval.Score
		want  error
	}{
		{name: "negative depth", depth: -1, alpha: fullWindow[0], beta: fullWindow[1], want: ErrInvalidDepth},
		{name: "depth too large", depth: MaxDepth + 1, alpha: fullWindow[0], beta: fullWindow[1], want: ErrInvalidDepth},
		{name: "inverted window", depth: 1, alpha: 5, beta: -5, want: ErrInvalidWindow},
		{name: "nan alpha", depth: 1, alpha: eval.Score(math.NaN()), beta: 0, want: ErrInvalidWindow},
		{name: "nan beta", depth: 1, alpha: 0, beta: eval.Score(math.NaN()), want: ErrInvalidWindow},
	}

	s := New(unitEvaluator())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := newTree(branch(leaf(1)), true)
			_, err := s.Search(pos, tt.depth, tt.alpha, tt.beta)
			if !errors.Is(err, tt.want) {
				t.Errorf("Search() error = %v, want %v", err, tt.want)
			}
			if pos.pushes != 0 {
				t.Errorf("Search() pushed %d moves on invalid input", pos.pushes)
			}
		})
	}
}

func TestSearch_EmptyWindowIsAccepted(t *testing.T) {
	s := New(unitEvaluator())
	if _, err := s.Search(newTree(branch(leaf(1), leaf(2)), true), 1, 0, 0); err != nil {
		t.Errorf("Search() error = %v", err)
	}
}

func TestSearch_InconsistentPosition(t *testing.T) {
	root := branch(
		leaf(1),
		branch(&node{open: true}),
	)
	pos := newTree(root, true)

	_, err := New(unitEvaluator()).Search(pos, 3, fullWindow[0], fullWindow[1])
	if !errors.Is(err, ErrInconsistentPosition) {
		t.Fatalf("Search() error = %v, want %v", err, ErrInconsistentPosition)
	}
	if pos.pushes != pos.pops || len(pos.path) != 1 {
		t.Errorf("position not restored: %d pushes, %d pops", pos.pushes, pos.pops)
	}
}

func TestSearch_RestoresBoard(t *testing.T) {
	const fen = "r1b1kb1r/ppp2ppp/2n1pn2/1B1pq3/3PPQ2/2N5/PPP2PPP/R1B1K1NR w KQkq - 0 7"
	b, err := chessboard.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN() error = %v", err)
	}
	before := b.FEN()

	if _, err := New(eval.NewEvaluator(eval.DefaultWeights())).Search(b, 2, fullWindow[0], fullWindow[1]); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if after := b.FEN(); after != before {
		t.Errorf("FEN after search = %q, want %q", after, before)
	}
	if n := len(b.Moves()); n != 0 {
		t.Errorf("board has %d moves after search, want 0", n)
	}
}

func TestSearch_ChessboardMatchesPlainMinimax(t *testing.T) {
	const fen = "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1"
	e := eval.NewEvaluator(eval.DefaultWeights())

	for depth := 0; depth <= 2; depth++ {
		b, err := chessboard.FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN() error = %v", err)
		}
		want := plainMinimax(e, b, depth)
		got, err := New(e).Search(b, depth, fullWindow[0], fullWindow[1])
		if err != nil {
			t.Fatalf("depth %d: Search() error = %v", depth, err)
		}
		if got != want {
			t.Errorf("depth %d: Search() = %v, want %v", depth, got, want)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	pos, err := chessboard.FromFEN("r1b1kb1r/ppp2ppp/2n1pn2/1B1pq3/3PPQ2/2N5/PPP2PPP/R1B1K1NR w KQkq - 0 7")
	if err != nil {
		b.Fatal(err)
	}
	s := New(eval.NewEvaluator(eval.DefaultWeights()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Search(pos, 2, fullWindow[0], fullWindow[1]); err != nil {
			b.Fatal(err)
		}
	}
}
