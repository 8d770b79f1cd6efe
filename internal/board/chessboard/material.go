package chessboard

import "github.com/notnil/chess"

// IsInsufficientMaterial reports whether neither side can possibly deliver
// checkmate.
func (b *Board) IsInsufficientMaterial() bool {
	m := scanMaterial(b.Position().Board().SquareMap())
	return m.insufficient(chess.White) && m.insufficient(chess.Black)
}

// material summarises a board for the insufficient material rule.
type material struct {
	pieces      map[chess.Color]int // all pieces including the king
	heavy       map[chess.Color]int // pawns, rooks and queens
	knights     map[chess.Color]int
	bishops     map[chess.Color]int
	minorOrRook map[chess.Color]int // everything except kings and queens

	anyPawns       bool
	anyKnights     bool
	bishopsOnDark  bool
	bishopsOnLight bool
}

func scanMaterial(squares map[chess.Square]chess.Piece) material {
	m := material{
		pieces:      make(map[chess.Color]int, 2),
		heavy:       make(map[chess.Color]int, 2),
		knights:     make(map[chess.Color]int, 2),
		bishops:     make(map[chess.Color]int, 2),
		minorOrRook: make(map[chess.Color]int, 2),
	}
	for sq, p := range squares {
		c := p.Color()
		if c == chess.NoColor {
			continue
		}
		m.pieces[c]++
		switch p.Type() {
		case chess.Pawn:
			m.heavy[c]++
			m.minorOrRook[c]++
			m.anyPawns = true
		case chess.Rook:
			m.heavy[c]++
			m.minorOrRook[c]++
		case chess.Queen:
			m.heavy[c]++
		case chess.Knight:
			m.knights[c]++
			m.minorOrRook[c]++
			m.anyKnights = true
		case chess.Bishop:
			m.bishops[c]++
			m.minorOrRook[c]++
			if isDarkSquare(sq) {
				m.bishopsOnDark = true
			} else {
				m.bishopsOnLight = true
			}
		}
	}
	return m
}

// insufficient reports whether side c alone cannot force checkmate.
func (m material) insufficient(c chess.Color) bool {
	if m.heavy[c] > 0 {
		return false
	}
	if m.knights[c] > 0 {
		// A lone knight mates only with help from blocking enemy pieces.
		return m.pieces[c] <= 2 && m.minorOrRook[c.Other()] == 0
	}
	if m.bishops[c] > 0 {
		sameColour := !m.bishopsOnDark || !m.bishopsOnLight
		return sameColour && !m.anyPawns && !m.anyKnights
	}
	return true
}

// isDarkSquare reports the colour of sq; a1 is dark.
func isDarkSquare(sq chess.Square) bool {
	file := int(sq) % 8
	rank := int(sq) / 8
	return (file+rank)%2 == 0
}
