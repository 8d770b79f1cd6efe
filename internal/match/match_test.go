package match

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/notnil/chess"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/alphabeta/internal/board/chessboard"
	"github.com/discochess/alphabeta/internal/stats"
)

// scripted plays a fixed list of UCI moves, one per call.
type scripted struct {
	name  string
	moves []string
	next  int
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Move(_ context.Context, g *chess.Game) (*chess.Move, error) {
	if s.next >= len(s.moves) {
		return nil, fmt.Errorf("%s: script exhausted", s.name)
	}
	uci := s.moves[s.next]
	s.next++
	return findMove(g, uci)
}

// preferring proposes one move whenever it is legal, otherwise the first
// legal move.
type preferring struct {
	uci string
	err error
}

func (p *preferring) Name() string { return "advisor" }

func (p *preferring) Move(_ context.Context, g *chess.Game) (*chess.Move, error) {
	if p.err != nil {
		return nil, p.err
	}
	if m, err := findMove(g, p.uci); err == nil {
		return m, nil
	}
	return g.ValidMoves()[0], nil
}

// foreign always answers with a move from a different position.
type foreign struct{}

func (foreign) Name() string { return "foreign" }

func (foreign) Move(context.Context, *chess.Game) (*chess.Move, error) {
	g := chess.NewGame()
	if err := g.MoveStr("e4"); err != nil {
		return nil, err
	}
	return findMove(g, "e7e5")
}

func findMove(g *chess.Game, uci string) (*chess.Move, error) {
	for _, m := range g.ValidMoves() {
		if m.String() == uci {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no legal move %s", uci)
}

func resultTag(g *chess.Game) string {
	for _, tp := range g.TagPairs() {
		if tp.Key == "Result" {
			return tp.Value
		}
	}
	return ""
}

func gameFromFEN(t *testing.T, fen string) *chess.Game {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("chess.FEN(%q) error = %v", fen, err)
	}
	return chess.NewGame(opt)
}

func newMatch(t *testing.T, white, black Mover, opts ...Option) *Match {
	t.Helper()
	m, err := New(white, black, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNew_MissingMover(t *testing.T) {
	if _, err := New(nil, &scripted{}); !errors.Is(err, ErrNoMover) {
		t.Errorf("New(nil, black) error = %v, want ErrNoMover", err)
	}
	if _, err := New(&scripted{}, nil); !errors.Is(err, ErrNoMover) {
		t.Errorf("New(white, nil) error = %v, want ErrNoMover", err)
	}
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name        string
		fen         string
		white       []string
		black       []string
		opts        []Option
		wantPlies   int
		wantOutcome chess.Outcome
		wantMethod  chess.Method
		wantReason  string
	}{
		{
			name:        "fool's mate",
			white:       []string{"f2f3", "g2g4"},
			black:       []string{"e7e5", "d8h4"},
			wantPlies:   4,
			wantOutcome: chess.BlackWon,
			wantMethod:  chess.Checkmate,
			wantReason:  ReasonCheckmate,
		},
		{
			name:        "ply limit",
			white:       []string{"e2e4", "g1f3"},
			black:       []string{"e7e5", "b8c6"},
			opts:        []Option{WithMaxPlies(3)},
			wantPlies:   3,
			wantOutcome: chess.NoOutcome,
			wantMethod:  chess.NoMethod,
			wantReason:  ReasonPlyLimit,
		},
		{
			name:        "king takes the last rook",
			fen:         "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1",
			white:       []string{"e1d2"},
			wantPlies:   1,
			wantOutcome: chess.Draw,
			wantMethod:  chess.InsufficientMaterial,
			wantReason:  ReasonInsufficientMaterial,
		},
		{
			name:        "repetition becomes claimable",
			white:       []string{"g1f3", "f3g1", "g1f3", "f3g1"},
			black:       []string{"g8f6", "f6g8", "g8f6", "f6g8"},
			wantPlies:   7,
			wantOutcome: chess.Draw,
			wantMethod:  chess.ThreefoldRepetition,
			wantReason:  ReasonThreefoldRepetition,
		},
		{
			name:        "already over",
			fen:         "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
			wantPlies:   0,
			wantOutcome: chess.Draw,
			wantMethod:  chess.Stalemate,
			wantReason:  ReasonStalemate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := chess.NewGame()
			if tt.fen != "" {
				g = gameFromFEN(t, tt.fen)
			}
			m := newMatch(t,
				&scripted{name: "white", moves: tt.white},
				&scripted{name: "black", moves: tt.black},
				tt.opts...)

			res, err := m.Play(context.Background(), g)
			if err != nil {
				t.Fatalf("Play() error = %v", err)
			}
			if len(res.Plies) != tt.wantPlies {
				t.Errorf("plies = %d, want %d", len(res.Plies), tt.wantPlies)
			}
			if len(g.Moves()) != tt.wantPlies {
				t.Errorf("game moves = %d, want %d", len(g.Moves()), tt.wantPlies)
			}
			if res.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %s, want %s", res.Outcome, tt.wantOutcome)
			}
			if res.Method != tt.wantMethod {
				t.Errorf("Method = %s, want %s", res.Method, tt.wantMethod)
			}
			if res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
			if res.Game != g {
				t.Error("Result.Game is not the played game")
			}
			if tt.wantOutcome != chess.NoOutcome && resultTag(g) != string(tt.wantOutcome) && g.Outcome() != tt.wantOutcome {
				t.Errorf("game records neither outcome nor Result tag %s", tt.wantOutcome)
			}
		})
	}
}

func TestPlay_PlyRecords(t *testing.T) {
	var hooked []Ply
	m := newMatch(t,
		&scripted{name: "w", moves: []string{"f2f3", "g2g4"}},
		&scripted{name: "b", moves: []string{"e7e5", "d8h4"}},
		WithPlyHook(func(p Ply) { hooked = append(hooked, p) }))

	res, err := m.Play(context.Background(), chess.NewGame())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if len(hooked) != len(res.Plies) {
		t.Fatalf("hook called %d times, want %d", len(hooked), len(res.Plies))
	}

	want := []struct {
		color chess.Color
		mover string
		move  string
	}{
		{chess.White, "w", "f2f3"},
		{chess.Black, "b", "e7e5"},
		{chess.White, "w", "g2g4"},
		{chess.Black, "b", "d8h4"},
	}
	for i, w := range want {
		p := res.Plies[i]
		if p.Number != i+1 || p.Color != w.color || p.Mover != w.mover || p.Move.String() != w.move {
			t.Errorf("ply %d = {%d %s %s %s}, want {%d %s %s %s}",
				i, p.Number, p.Color, p.Mover, p.Move, i+1, w.color, w.mover, w.move)
		}
		if p.Elapsed < 0 {
			t.Errorf("ply %d Elapsed = %s", i, p.Elapsed)
		}
	}
}

func TestPlay_Advisor(t *testing.T) {
	m := newMatch(t,
		&scripted{name: "w", moves: []string{"f2f3", "g2g4"}},
		&scripted{name: "b", moves: []string{"e7e5", "d8h4"}},
		WithAdvisor(&preferring{uci: "g2g4"}, chess.White))

	res, err := m.Play(context.Background(), chess.NewGame())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	for _, p := range res.Plies {
		if p.Color == chess.Black && p.Advice != nil {
			t.Errorf("ply %d: black was advised", p.Number)
		}
	}
	if res.Plies[0].Advice == nil || res.Plies[0].Agreed() {
		t.Errorf("ply 1 advice = %v, want a disagreement", res.Plies[0].Advice)
	}
	if !res.Plies[2].Agreed() {
		t.Errorf("ply 3 advice = %v, want agreement", res.Plies[2].Advice)
	}

	s := res.Summary()
	if s.AdvisorChecks != 2 || s.AdvisorAgreements != 1 {
		t.Errorf("advisor checks/agreements = %d/%d, want 2/1", s.AdvisorChecks, s.AdvisorAgreements)
	}
	if s.AgreementRate() != 0.5 {
		t.Errorf("AgreementRate() = %v, want 0.5", s.AgreementRate())
	}
}

func TestPlay_AdvisorBothSides(t *testing.T) {
	m := newMatch(t,
		&scripted{name: "w", moves: []string{"f2f3", "g2g4"}},
		&scripted{name: "b", moves: []string{"e7e5", "d8h4"}},
		WithAdvisor(&preferring{uci: "d8h4"}, chess.NoColor))

	res, err := m.Play(context.Background(), chess.NewGame())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	for _, p := range res.Plies {
		if p.Advice == nil {
			t.Errorf("ply %d was not advised", p.Number)
		}
	}
	if !res.Plies[3].Agreed() {
		t.Error("advisor did not find the mate")
	}
}

func TestPlay_AdvisorErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := newMatch(t,
		&scripted{name: "w", moves: []string{"e2e4"}},
		&scripted{name: "b", moves: []string{"e7e5"}},
		WithMaxPlies(2),
		WithLogger(zap.New(core)),
		WithAdvisor(&preferring{err: errors.New("engine crashed")}, chess.NoColor))

	res, err := m.Play(context.Background(), chess.NewGame())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if len(res.Plies) != 2 {
		t.Errorf("plies = %d, want 2", len(res.Plies))
	}
	if n := logs.FilterMessage("advisor failed").Len(); n != 2 {
		t.Errorf("advisor failures logged = %d, want 2", n)
	}
}

func TestPlay_Errors(t *testing.T) {
	t.Run("illegal move", func(t *testing.T) {
		m := newMatch(t, foreign{}, &scripted{name: "b"})
		res, err := m.Play(context.Background(), chess.NewGame())
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("Play() error = %v, want ErrIllegalMove", err)
		}
		if len(res.Plies) != 0 {
			t.Errorf("plies = %d, want 0", len(res.Plies))
		}
	})

	t.Run("mover fails", func(t *testing.T) {
		m := newMatch(t,
			&scripted{name: "w", moves: []string{"e2e4"}},
			&scripted{name: "b"})
		res, err := m.Play(context.Background(), chess.NewGame())
		if err == nil {
			t.Fatal("Play() error = nil, want script exhausted")
		}
		if len(res.Plies) != 1 {
			t.Errorf("plies = %d, want 1", len(res.Plies))
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := newMatch(t, &scripted{name: "w"}, &scripted{name: "b"})
		if _, err := m.Play(ctx, chess.NewGame()); !errors.Is(err, context.Canceled) {
			t.Errorf("Play() error = %v, want context.Canceled", err)
		}
	})
}

func TestPlay_Stats(t *testing.T) {
	rec := stats.NewRecorder()
	m := newMatch(t,
		&scripted{name: "w", moves: []string{"f2f3", "g2g4"}},
		&scripted{name: "b", moves: []string{"e7e5", "d8h4"}},
		WithStats(rec))

	if _, err := m.Play(context.Background(), chess.NewGame()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if got := rec.Counter(stats.MetricMatchPlies); got != 4 {
		t.Errorf("plies counter = %d, want 4", got)
	}
	if got := rec.Counter(stats.MetricMatchGames); got != 1 {
		t.Errorf("games counter = %d, want 1", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		fen         string
		wantOver    bool
		wantOutcome chess.Outcome
		wantMethod  chess.Method
	}{
		{
			name: "starting position",
			fen:  "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		},
		{
			name:        "white checkmated",
			fen:         "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
			wantOver:    true,
			wantOutcome: chess.BlackWon,
			wantMethod:  chess.Checkmate,
		},
		{
			name:        "black checkmated",
			fen:         "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1",
			wantOver:    true,
			wantOutcome: chess.WhiteWon,
			wantMethod:  chess.Checkmate,
		},
		{
			name:        "stalemate",
			fen:         "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
			wantOver:    true,
			wantOutcome: chess.Draw,
			wantMethod:  chess.Stalemate,
		},
		{
			name:        "bare kings",
			fen:         "8/8/8/4k3/8/8/4K3/8 w - - 0 1",
			wantOver:    true,
			wantOutcome: chess.Draw,
			wantMethod:  chess.InsufficientMaterial,
		},
		{
			name:        "seventy-five moves",
			fen:         "4k3/8/8/8/8/8/4P3/4K3 w - - 150 120",
			wantOver:    true,
			wantOutcome: chess.Draw,
			wantMethod:  chess.SeventyFiveMoveRule,
		},
		{
			name:        "fifty moves",
			fen:         "4k3/8/8/8/8/8/4P3/4K3 w - - 100 90",
			wantOver:    true,
			wantOutcome: chess.Draw,
			wantMethod:  chess.FiftyMoveRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := chessboard.FromFEN(tt.fen)
			if err != nil {
				t.Fatalf("FromFEN() error = %v", err)
			}
			outcome, method, reason, over := Classify(b)
			if over != tt.wantOver {
				t.Fatalf("over = %v, want %v", over, tt.wantOver)
			}
			if !over {
				if outcome != chess.NoOutcome || reason != "" {
					t.Errorf("ongoing game classified as %s (%q)", outcome, reason)
				}
				return
			}
			if outcome != tt.wantOutcome || method != tt.wantMethod {
				t.Errorf("Classify() = %s %s, want %s %s", outcome, method, tt.wantOutcome, tt.wantMethod)
			}
			if reason == "" {
				t.Error("Classify() reason is empty")
			}
		})
	}
}
