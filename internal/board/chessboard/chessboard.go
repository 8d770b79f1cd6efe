// Package chessboard implements board.Position on top of github.com/notnil/chess.
package chessboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/discochess/alphabeta/internal/board"
	"github.com/discochess/alphabeta/internal/fen"
)

// ErrInvalidFEN indicates the FEN string could not be parsed.
var ErrInvalidFEN = errors.New("chessboard: invalid FEN")

// Compile-time check that Board implements board.Position.
var _ board.Position = (*Board)(nil)

// Board is a chess position together with the history that led to it.
// The history is needed by the repetition rules.
// A Board is not safe for concurrent use.
type Board struct {
	history []*chess.Position
	keys    []string // repetition key per history entry
	moves   []*chess.Move
}

// New returns a board at the standard starting position.
func New() *Board {
	return FromGame(chess.NewGame())
}

// FromFEN returns a board at the position described by a FEN string.
func FromFEN(s string) (*Board, error) {
	opt, err := chess.FEN(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return FromGame(chess.NewGame(opt)), nil
}

// FromGame returns a board at the game's current position.
// Positions already played in the game count towards repetitions.
func FromGame(g *chess.Game) *Board {
	positions := g.Positions()
	moves := g.Moves()

	b := &Board{
		history: make([]*chess.Position, 0, len(positions)+8),
		keys:    make([]string, 0, len(positions)+8),
		moves:   make([]*chess.Move, 0, len(moves)+8),
	}
	for _, pos := range positions {
		b.history = append(b.history, pos)
		b.keys = append(b.keys, repetitionKey(pos))
	}
	b.moves = append(b.moves, moves...)
	return b
}

// Position returns the current notnil/chess position.
func (b *Board) Position() *chess.Position {
	return b.history[len(b.history)-1]
}

// FEN returns the current position in Forsyth-Edwards Notation.
func (b *Board) FEN() string {
	return b.Position().String()
}

// Moves returns a copy of the moves played since the first known position.
func (b *Board) Moves() []*chess.Move {
	out := make([]*chess.Move, len(b.moves))
	copy(out, b.moves)
	return out
}

// FindMove returns the legal move with the given UCI text.
func (b *Board) FindMove(uci string) (*chess.Move, bool) {
	for _, m := range b.Position().ValidMoves() {
		if m.String() == uci {
			return m, true
		}
	}
	return nil, false
}

// WhiteToMove reports whether White is to move.
func (b *Board) WhiteToMove() bool {
	return b.Position().Turn() == chess.White
}

// LegalMoves returns the legal moves in notnil/chess generation order.
func (b *Board) LegalMoves() []board.Move {
	valid := b.Position().ValidMoves()
	moves := make([]board.Move, len(valid))
	for i, m := range valid {
		moves[i] = m
	}
	return moves
}

// Push plays m, which must come from LegalMoves.
func (b *Board) Push(m board.Move) {
	cm, ok := m.(*chess.Move)
	if !ok {
		panic(fmt.Sprintf("chessboard: cannot push move of type %T", m))
	}
	next := b.Position().Update(cm)
	b.history = append(b.history, next)
	b.keys = append(b.keys, repetitionKey(next))
	b.moves = append(b.moves, cm)
}

// Pop takes back the last pushed move.
func (b *Board) Pop() {
	if len(b.moves) == 0 {
		panic("chessboard: pop without a matching push")
	}
	last := len(b.history) - 1
	b.history[last] = nil
	b.history = b.history[:last]
	b.keys = b.keys[:last]
	b.moves = b.moves[:len(b.moves)-1]
}

// IsCheckmate reports whether the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.Position().Status() == chess.Checkmate
}

// IsStalemate reports whether the side to move has no legal move and is
// not in check.
func (b *Board) IsStalemate() bool {
	return b.Position().Status() == chess.Stalemate
}

// IsSeventyFiveMoves reports whether 75 moves per side passed without a
// capture or pawn move. Checkmate on the last move takes precedence.
func (b *Board) IsSeventyFiveMoves() bool {
	pos := b.Position()
	return pos.HalfMoveClock() >= 150 && len(pos.ValidMoves()) > 0
}

// IsFivefoldRepetition reports whether the current position occurred
// five times.
func (b *Board) IsFivefoldRepetition() bool {
	return b.occurrences(b.keys[len(b.keys)-1]) >= 5
}

// CanClaimDraw reports whether the side to move can claim a draw by the
// fifty-move rule or threefold repetition.
func (b *Board) CanClaimDraw() bool {
	return b.CanClaimFiftyMoves() || b.CanClaimThreefoldRepetition()
}

// IsGameOver reports whether the game ended without any claim.
func (b *Board) IsGameOver() bool {
	return b.IsCheckmate() ||
		b.IsStalemate() ||
		b.IsInsufficientMaterial() ||
		b.IsSeventyFiveMoves() ||
		b.IsFivefoldRepetition()
}

// Inventory counts the pieces of both sides.
func (b *Board) Inventory() board.Inventory {
	var inv board.Inventory
	for _, p := range b.Position().Board().SquareMap() {
		k, ok := kindOf(p.Type())
		if !ok {
			continue
		}
		if p.Color() == chess.White {
			inv.White[k]++
		} else {
			inv.Black[k]++
		}
	}
	return inv
}

// CanClaimFiftyMoves reports whether fifty moves passed without a capture
// or pawn move, or will have after some move of the side to move.
func (b *Board) CanClaimFiftyMoves() bool {
	pos := b.Position()
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return false
	}
	clock := pos.HalfMoveClock()
	if clock >= 100 {
		return true
	}
	if clock < 99 {
		return false
	}
	for _, m := range moves {
		if isZeroing(pos, m) {
			continue
		}
		if len(pos.Update(m).ValidMoves()) > 0 {
			return true
		}
	}
	return false
}

// CanClaimThreefoldRepetition reports whether the position occurred three
// times, or some move of the side to move repeats a position for the third
// time.
func (b *Board) CanClaimThreefoldRepetition() bool {
	if b.occurrences(b.keys[len(b.keys)-1]) >= 3 {
		return true
	}

	seenTwice := b.repeatedKeys(2)
	if len(seenTwice) == 0 {
		return false
	}

	pos := b.Position()
	for _, m := range pos.ValidMoves() {
		if isZeroing(pos, m) {
			continue
		}
		if _, ok := seenTwice[repetitionKey(pos.Update(m))]; ok {
			return true
		}
	}
	return false
}

// ReversibleKeys returns the repetition keys of the positions since the last
// capture or pawn move, oldest first. The last key is the current position.
func (b *Board) ReversibleKeys() []string {
	keys := b.keys[b.reversibleWindow():]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// reversibleWindow returns the index of the oldest history entry that can
// still repeat: nothing before the last capture or pawn move can.
func (b *Board) reversibleWindow() int {
	start := len(b.history) - 1 - b.Position().HalfMoveClock()
	if start < 0 {
		start = 0
	}
	return start
}

func (b *Board) occurrences(key string) int {
	n := 0
	for i := b.reversibleWindow(); i < len(b.keys); i++ {
		if b.keys[i] == key {
			n++
		}
	}
	return n
}

func (b *Board) repeatedKeys(min int) map[string]struct{} {
	counts := make(map[string]int)
	for i := b.reversibleWindow(); i < len(b.keys); i++ {
		counts[b.keys[i]]++
	}
	out := make(map[string]struct{})
	for k, n := range counts {
		if n >= min {
			out[k] = struct{}{}
		}
	}
	return out
}

// repetitionKey identifies a position for the repetition rules: placement,
// side to move, castling rights and en passant square. The en passant square
// only counts when an en passant capture is legal.
func repetitionKey(pos *chess.Position) string {
	s := pos.String()
	key, err := fen.Normalize(s)
	if err != nil {
		return s
	}
	if pos.EnPassantSquare() == chess.NoSquare || canCaptureEnPassant(pos) {
		return key
	}
	fields := strings.Fields(key)
	fields[3] = "-"
	return strings.Join(fields, " ")
}

func canCaptureEnPassant(pos *chess.Position) bool {
	for _, m := range pos.ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			return true
		}
	}
	return false
}

// isZeroing reports whether m resets the halfmove clock.
func isZeroing(pos *chess.Position, m *chess.Move) bool {
	if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
		return true
	}
	return pos.Board().Piece(m.S1()).Type() == chess.Pawn
}

func kindOf(t chess.PieceType) (board.Kind, bool) {
	switch t {
	case chess.Pawn:
		return board.Pawn, true
	case chess.Knight:
		return board.Knight, true
	case chess.Bishop:
		return board.Bishop, true
	case chess.Rook:
		return board.Rook, true
	case chess.Queen:
		return board.Queen, true
	case chess.King:
		return board.King, true
	}
	return 0, false
}
