// Package eval scores positions by material balance and classifies draws.
package eval

import (
	"math"
	"strconv"
)

// Score is a position score from White's point of view over the extended
// reals: finite values are material balances, +Inf means Black is
// checkmated and -Inf means White is checkmated.
//
// Mate scores are only ever compared, never added to.
type Score float64

var (
	// WhiteMates is the score of a position where Black is checkmated.
	WhiteMates = Score(math.Inf(1))

	// BlackMates is the score of a position where White is checkmated.
	BlackMates = Score(math.Inf(-1))
)

// Draw is the score of every drawn terminal position.
const Draw Score = 0

// IsMate reports whether s is one of the two mate sentinels.
func (s Score) IsMate() bool {
	return math.IsInf(float64(s), 0)
}

// String renders the score as "+inf", "-inf", "0" or a signed integer
// such as "+100" or "-563".
func (s Score) String() string {
	f := float64(s)
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == 0:
		return "0"
	case f > 0:
		return "+" + strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
