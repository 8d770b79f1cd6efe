// Package match plays games between two movers, one ply at a time.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/board/chessboard"
	"github.com/discochess/alphabeta/internal/eval"
	"github.com/discochess/alphabeta/internal/stats"
)

var (
	// ErrIllegalMove indicates a mover returned a move the game rejected.
	ErrIllegalMove = errors.New("match: illegal move")

	// ErrNoMover indicates New was called without a mover for each side.
	ErrNoMover = errors.New("match: missing mover")
)

// Mover chooses moves for one side.
type Mover interface {
	// Name identifies the mover in logs and game records.
	Name() string

	// Move returns a legal move for the side to move in g without
	// modifying g.
	Move(ctx context.Context, g *chess.Game) (*chess.Move, error)
}

// Reasons a game ends.
const (
	ReasonCheckmate            = "checkmate"
	ReasonStalemate            = "stalemate"
	ReasonInsufficientMaterial = "insufficient material"
	ReasonSeventyFiveMoves     = "seventy-five-move rule"
	ReasonFivefoldRepetition   = "fivefold repetition"
	ReasonFiftyMoves           = "fifty-move rule claim"
	ReasonThreefoldRepetition  = "threefold repetition claim"
	ReasonPlyLimit             = "ply limit"
)

// Ply records one move of a match.
type Ply struct {
	Number  int // 1-based
	Color   chess.Color
	Mover   string
	Move    *chess.Move
	Elapsed time.Duration

	// Advice is the advisor's move for the same position, if it was asked.
	Advice *chess.Move
}

// Agreed reports whether the advisor proposed the move that was played.
func (p Ply) Agreed() bool {
	return p.Advice != nil && p.Advice.String() == p.Move.String()
}

// Result describes a finished or interrupted match.
type Result struct {
	Game    *chess.Game
	Plies   []Ply
	Outcome chess.Outcome
	Method  chess.Method
	Reason  string
}

// Match alternates two movers on one game. Exactly one mover, or the
// advisor, is working at any time.
type Match struct {
	white    Mover
	black    Mover
	advisor  Mover
	advise   chess.Color
	maxPlies int
	onPly    func(Ply)
	stats    stats.Collector
	logger   *zap.Logger
}

// New creates a match between white and black.
func New(white, black Mover, opts ...Option) (*Match, error) {
	if white == nil || black == nil {
		return nil, ErrNoMover
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	return &Match{
		white:    white,
		black:    black,
		advisor:  cfg.advisor,
		advise:   cfg.advise,
		maxPlies: cfg.maxPlies,
		onPly:    cfg.onPly,
		stats:    cfg.stats,
		logger:   cfg.logger,
	}, nil
}

// Play continues g until it is over, drawn by the same rules the search
// scores as draws, or the ply limit is reached. g is modified in place.
// On error the returned Result holds the game so far.
func (m *Match) Play(ctx context.Context, g *chess.Game) (*Result, error) {
	res := &Result{Game: g, Outcome: chess.NoOutcome, Method: chess.NoMethod}

	for {
		b := chessboard.FromGame(g)
		if outcome, method, reason, over := Classify(b); over {
			res.Outcome, res.Method, res.Reason = outcome, method, reason
			break
		}
		if m.maxPlies > 0 && len(res.Plies) >= m.maxPlies {
			res.Reason = ReasonPlyLimit
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ply, err := m.play(ctx, g, len(res.Plies)+1)
		if err != nil {
			return res, err
		}
		res.Plies = append(res.Plies, ply)
		if m.onPly != nil {
			m.onPly(ply)
		}
	}

	if res.Outcome != chess.NoOutcome && g.Outcome() != res.Outcome {
		g.AddTagPair("Result", string(res.Outcome))
	}

	m.stats.IncCounter(stats.MetricMatchGames, 1)
	m.logger.Info("game over",
		zap.String("result", string(res.Outcome)),
		zap.String("reason", res.Reason),
		zap.Int("plies", len(res.Plies)),
	)
	return res, nil
}

func (m *Match) play(ctx context.Context, g *chess.Game, number int) (Ply, error) {
	color := g.Position().Turn()
	mover := m.white
	if color == chess.Black {
		mover = m.black
	}

	start := time.Now()
	mv, err := mover.Move(ctx, g)
	if err != nil {
		return Ply{}, fmt.Errorf("%s to move at ply %d: %w", mover.Name(), number, err)
	}
	ply := Ply{
		Number:  number,
		Color:   color,
		Mover:   mover.Name(),
		Move:    mv,
		Elapsed: time.Since(start),
	}

	if m.advisor != nil && (m.advise == chess.NoColor || m.advise == color) {
		advice, err := m.advisor.Move(ctx, g)
		if err != nil {
			m.logger.Warn("advisor failed", zap.Int("ply", number), zap.Error(err))
		} else {
			ply.Advice = advice
		}
	}

	if err := g.Move(mv); err != nil {
		return Ply{}, fmt.Errorf("%w: %s by %s at ply %d: %v", ErrIllegalMove, mv, mover.Name(), number, err)
	}

	m.stats.IncCounter(stats.MetricMatchPlies, 1)
	fields := []zap.Field{
		zap.Int("ply", number),
		zap.String("side", color.Name()),
		zap.String("mover", ply.Mover),
		zap.Stringer("move", mv),
		zap.Duration("elapsed", ply.Elapsed),
	}
	if ply.Advice != nil {
		fields = append(fields, zap.Stringer("advice", ply.Advice), zap.Bool("agreed", ply.Agreed()))
	}
	m.logger.Info("ply", fields...)
	return ply, nil
}

// Classify reports whether the position of b ends the game, and how.
// A game ends exactly when b.IsGameOver() or eval.IsDraw(b) holds.
func Classify(b *chessboard.Board) (chess.Outcome, chess.Method, string, bool) {
	if !b.IsGameOver() && !eval.IsDraw(b) {
		return chess.NoOutcome, chess.NoMethod, "", false
	}

	switch {
	case b.IsCheckmate():
		if b.WhiteToMove() {
			return chess.BlackWon, chess.Checkmate, ReasonCheckmate, true
		}
		return chess.WhiteWon, chess.Checkmate, ReasonCheckmate, true
	case b.IsStalemate():
		return chess.Draw, chess.Stalemate, ReasonStalemate, true
	case b.IsInsufficientMaterial():
		return chess.Draw, chess.InsufficientMaterial, ReasonInsufficientMaterial, true
	case b.IsSeventyFiveMoves():
		return chess.Draw, chess.SeventyFiveMoveRule, ReasonSeventyFiveMoves, true
	case b.IsFivefoldRepetition():
		return chess.Draw, chess.FivefoldRepetition, ReasonFivefoldRepetition, true
	case b.CanClaimThreefoldRepetition():
		return chess.Draw, chess.ThreefoldRepetition, ReasonThreefoldRepetition, true
	}
	return chess.Draw, chess.FiftyMoveRule, ReasonFiftyMoves, true
}
