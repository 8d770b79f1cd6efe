package eval

import "github.com/discochess/alphabeta/internal/board"

// Evaluator computes static scores with a fixed weight table.
type Evaluator struct {
	weights Weights
}

// NewEvaluator returns an Evaluator using w.
func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{weights: w}
}

// Weights returns the weight table in use.
func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Evaluate scores pos without searching. Checkmate scores as a mate
// sentinel for the side that delivered it, any draw as Draw, and every
// other position as the material balance.
func (e *Evaluator) Evaluate(pos board.Position) Score {
	if pos.IsCheckmate() {
		if pos.WhiteToMove() {
			return BlackMates
		}
		return WhiteMates
	}
	if IsDraw(pos) {
		return Draw
	}
	return e.Material(pos.Inventory())
}

// Material returns Σ (white − black) × weight over all piece kinds.
func (e *Evaluator) Material(inv board.Inventory) Score {
	var total int
	for _, k := range board.Kinds {
		total += (inv.White[k] - inv.Black[k]) * e.weights.Value(k)
	}
	return Score(total)
}

// IsDraw reports whether pos is drawn: stalemate, fivefold repetition,
// insufficient material, the seventy-five-move rule, or a draw the side to
// move may claim (threefold repetition, fifty-move rule).
func IsDraw(pos board.Position) bool {
	return pos.IsStalemate() ||
		pos.IsFivefoldRepetition() ||
		pos.IsInsufficientMaterial() ||
		pos.IsSeventyFiveMoves() ||
		pos.CanClaimDraw()
}
