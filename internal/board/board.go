// Package board defines the position capability consumed by the evaluator
// and the search.
//
// Implementations own all chess rules: move generation, legality and the
// terminal-state queries. The search only ever pushes moves it received from
// LegalMoves and pops them again in reverse order.
package board

// Move is a legal transition between two positions.
type Move interface {
	// String returns the canonical (UCI) text of the move.
	String() string
}

// Position is a mutable chess position with a LIFO move stack.
type Position interface {
	// WhiteToMove reports whether White is the side to move.
	WhiteToMove() bool

	// LegalMoves enumerates the legal moves in a deterministic order.
	LegalMoves() []Move

	// Push applies a move returned by LegalMoves.
	Push(m Move)

	// Pop reverts the most recent Push.
	// Calling Pop without a matching Push panics.
	Pop()

	IsCheckmate() bool
	IsStalemate() bool
	IsInsufficientMaterial() bool
	IsSeventyFiveMoves() bool
	IsFivefoldRepetition() bool

	// CanClaimDraw reports whether a threefold repetition or fifty-move
	// draw can be claimed now or by the side to move's next move.
	CanClaimDraw() bool

	// IsGameOver reports checkmate, stalemate, insufficient material, the
	// seventy-five-move rule or fivefold repetition.
	IsGameOver() bool

	// Inventory returns the piece counts of both sides.
	Inventory() Inventory
}

// Kind is a piece kind, independent of colour.
type Kind int

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King

	// NumKinds is the number of piece kinds.
	NumKinds
)

// Kinds lists every piece kind in ascending order.
var Kinds = [NumKinds]Kind{Pawn, Knight, Bishop, Rook, Queen, King}

var kindNames = [NumKinds]string{"pawn", "knight", "bishop", "rook", "queen", "king"}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Inventory holds piece counts per side, indexed by Kind.
type Inventory struct {
	White [NumKinds]int
	Black [NumKinds]int
}

// Count returns the number of pieces of the given kind and colour.
func (inv Inventory) Count(k Kind, white bool) int {
	if white {
		return inv.White[k]
	}
	return inv.Black[k]
}
