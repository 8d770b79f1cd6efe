// Package reference drives an external UCI engine, typically Stockfish,
// as an opponent or advisor.
package reference

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"go.uber.org/zap"

	"github.com/discochess/alphabeta/internal/board/chessboard"
	"github.com/discochess/alphabeta/internal/cache"
	"github.com/discochess/alphabeta/internal/stats"
)

var (
	// ErrIllegalMove indicates the engine proposed a move that is not legal
	// in the current position.
	ErrIllegalMove = errors.New("reference: engine proposed an illegal move")

	// ErrNoMove indicates the engine answered without a move.
	ErrNoMove = errors.New("reference: engine returned no move")

	// ErrClosed indicates the engine has been closed.
	ErrClosed = errors.New("reference: engine closed")
)

// Runner is the part of *uci.Engine the reference engine needs.
type Runner interface {
	Run(cmds ...uci.Cmd) error
	SearchResults() uci.SearchResults
	ID() map[string]string
	Close() error
}

// Compile-time check that *uci.Engine implements Runner.
var _ Runner = (*uci.Engine)(nil)

// Limit bounds a single search. A positive Depth takes precedence over
// MoveTime.
type Limit struct {
	Depth    int
	MoveTime time.Duration
}

func (l Limit) String() string {
	if l.Depth > 0 {
		return fmt.Sprintf("depth %d", l.Depth)
	}
	return fmt.Sprintf("movetime %s", l.MoveTime)
}

func (l Limit) cmd() uci.CmdGo {
	if l.Depth > 0 {
		return uci.CmdGo{Depth: l.Depth}
	}
	return uci.CmdGo{MoveTime: l.MoveTime}
}

// Engine proposes moves by asking a UCI engine.
// Calls are serialized; an Engine is safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	runner Runner
	closed bool

	name   string
	limit  Limit
	cache  cache.Backend[string, string]
	stats  stats.Collector
	logger *zap.Logger
}

// New starts the engine binary at path and performs the UCI handshake.
func New(path string, opts ...Option) (*Engine, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", path, err)
	}
	e, err := NewWithRunner(eng, opts...)
	if err != nil {
		eng.Close()
		return nil, err
	}
	return e, nil
}

// NewWithRunner performs the UCI handshake on an already started engine.
func NewWithRunner(r Runner, opts ...Option) (*Engine, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	cmds := []uci.Cmd{uci.CmdUCI}
	for _, o := range cfg.setOptions {
		cmds = append(cmds, o)
	}
	cmds = append(cmds, uci.CmdIsReady, uci.CmdUCINewGame)
	if err := r.Run(cmds...); err != nil {
		return nil, fmt.Errorf("initializing engine: %w", err)
	}

	name := cfg.name
	if name == "" {
		name = r.ID()["name"]
	}
	if name == "" {
		name = "reference"
	}

	e := &Engine{
		runner: r,
		name:   name,
		limit:  cfg.limit,
		cache:  cfg.cache,
		stats:  cfg.stats,
		logger: cfg.logger,
	}
	e.logger.Debug("reference engine ready",
		zap.String("name", e.name),
		zap.Stringer("limit", e.limit),
	)
	return e, nil
}

// Name returns the engine name reported by the engine, unless overridden.
func (e *Engine) Name() string {
	return e.name
}

// Limit returns the search limit used for every move.
func (e *Engine) Limit() Limit {
	return e.limit
}

// Move asks the engine for its move in the current position of g.
// The full move history is sent so the engine sees repetitions. The
// request itself cannot be interrupted; ctx is checked before it is sent.
func (e *Engine) Move(ctx context.Context, g *chess.Game) (*chess.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	key, cacheable := e.cacheKey(g)
	if cacheable {
		if proposal, ok := e.cache.Get(key); ok {
			return resolve(g, proposal)
		}
	}

	start := time.Now()
	positions := g.Positions()
	cmdPos := uci.CmdPosition{Position: positions[0], Moves: g.Moves()}
	if err := e.runner.Run(cmdPos, e.limit.cmd()); err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	elapsed := time.Since(start)

	e.stats.IncCounter(stats.MetricReferenceRequests, 1)
	e.stats.ObserveHistogram(stats.MetricReferenceSeconds, elapsed.Seconds())

	best := e.runner.SearchResults().BestMove
	if best == nil {
		return nil, ErrNoMove
	}
	proposal := best.String()

	m, err := resolve(g, proposal)
	if err != nil {
		return nil, err
	}
	if cacheable {
		e.cache.Set(key, proposal)
	}

	e.logger.Debug("reference move",
		zap.String("move", proposal),
		zap.Duration("elapsed", elapsed),
	)
	return m, nil
}

// NewGame tells the engine the next position is from a different game.
func (e *Engine) NewGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.runner.Run(uci.CmdUCINewGame, uci.CmdIsReady)
}

// Close stops the engine process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	return e.runner.Close()
}

// cacheKey identifies a request by position, repetition state and limit.
// Positions the current one can still repeat are part of the key since the
// engine sees them through the move history. Proposals are only reused when
// the limit makes them deterministic, i.e. for fixed depths.
func (e *Engine) cacheKey(g *chess.Game) (string, bool) {
	if e.cache == nil || e.limit.Depth <= 0 {
		return "", false
	}
	keys := chessboard.FromGame(g).ReversibleKeys()
	current := keys[len(keys)-1]
	earlier := slices.Compact(slices.Sorted(slices.Values(keys[:len(keys)-1])))
	return current + "|" + strings.Join(earlier, ";") + "|" + e.limit.String(), true
}

// resolve maps the engine's UCI text onto one of g's legal moves.
func resolve(g *chess.Game, proposal string) (*chess.Move, error) {
	for _, m := range g.ValidMoves() {
		if m.String() == proposal {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrIllegalMove, proposal, g.Position())
}
