package eval

import (
	"errors"
	"fmt"

	"github.com/discochess/alphabeta/internal/board"
)

// ErrInvalidWeights indicates a weight table with a negative value.
var ErrInvalidWeights = errors.New("eval: invalid piece weights")

// Weights is the value of one piece of each kind.
// It is a value type; copies cannot affect an Evaluator that holds one.
type Weights struct {
	Pawn   int
	Knight int
	Bishop int
	Rook   int
	Queen  int
	King   int
}

// DefaultWeights returns the standard table. The king weight cancels out
// while both kings are on the board but is part of every reported score.
func DefaultWeights() Weights {
	return Weights{
		Pawn:   100,
		Knight: 305,
		Bishop: 333,
		Rook:   563,
		Queen:  950,
		King:   2000,
	}
}

// Value returns the weight of kind k.
func (w Weights) Value(k board.Kind) int {
	switch k {
	case board.Pawn:
		return w.Pawn
	case board.Knight:
		return w.Knight
	case board.Bishop:
		return w.Bishop
	case board.Rook:
		return w.Rook
	case board.Queen:
		return w.Queen
	case board.King:
		return w.King
	}
	return 0
}

// Validate returns ErrInvalidWeights if any weight is negative.
func (w Weights) Validate() error {
	for _, k := range board.Kinds {
		if v := w.Value(k); v < 0 {
			return fmt.Errorf("%w: %s = %d", ErrInvalidWeights, k, v)
		}
	}
	return nil
}
