package alphabeta

import (
	"github.com/notnil/chess"

	"github.com/discochess/alphabeta/internal/eval"
)

// Score is a position score from White's point of view. Positive values
// favour White. Checkmate scores as WhiteMates or BlackMates.
type Score = eval.Score

// Weights is the value of one piece of each kind.
type Weights = eval.Weights

// Score sentinels.
var (
	WhiteMates = eval.WhiteMates
	BlackMates = eval.BlackMates
)

// Draw is the score of any drawn position.
const Draw = eval.Draw

// DefaultWeights returns pawn 100, knight 305, bishop 333, rook 563,
// queen 950 and king 2000.
func DefaultWeights() Weights {
	return eval.DefaultWeights()
}

// Ranked is a root move and the score of the position it leads to.
type Ranked struct {
	Move  *chess.Move
	Score Score
}

// Choice is the result of a root search.
type Choice struct {
	// Move is the selected move.
	Move *chess.Move

	// Score is the searched score of the position after Move.
	Score Score

	// Depth is the number of plies searched below each root move.
	Depth int

	// Nodes is the number of positions visited.
	Nodes int64

	// Ranking holds every legal move in ascending score order.
	// Moves with equal scores keep their generation order.
	Ranking []Ranked
}

// IsMate reports whether the selected move leads to a forced mate within
// the search horizon, for either side.
func (c *Choice) IsMate() bool {
	return c.Score.IsMate()
}
