// Package fen provides FEN (Forsyth-Edwards Notation) parsing utilities.
package fen

import (
	"errors"
	"strings"

	"github.com/discochess/alphabeta/internal/board"
)

// ErrInvalidFEN indicates the FEN string is malformed.
var ErrInvalidFEN = errors.New("invalid FEN notation")

// Side holds the piece counts of one colour.
type Side struct {
	Pawns   int
	Knights int
	Bishops int
	Rooks   int
	Queens  int
	Kings   int
}

// Material represents the piece counts for both sides.
type Material struct {
	White Side
	Black Side
}

// Inventory converts the counts to a board.Inventory.
func (m Material) Inventory() board.Inventory {
	return board.Inventory{
		White: m.White.counts(),
		Black: m.Black.counts(),
	}
}

func (s Side) counts() [board.NumKinds]int {
	var c [board.NumKinds]int
	c[board.Pawn] = s.Pawns
	c[board.Knight] = s.Knights
	c[board.Bishop] = s.Bishops
	c[board.Rook] = s.Rooks
	c[board.Queen] = s.Queens
	c[board.King] = s.Kings
	return c
}

// Normalize returns the first four FEN fields: placement, side to move,
// castling rights and en passant square. Two positions with the same
// normalized FEN are the same position for the repetition rules.
func Normalize(fen string) (string, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return "", ErrInvalidFEN
	}

	if !isValidPiecePlacement(parts[0]) {
		return "", ErrInvalidFEN
	}

	if parts[1] != "w" && parts[1] != "b" {
		return "", ErrInvalidFEN
	}

	return strings.Join(parts[:4], " "), nil
}

// ParseMaterial extracts material counts from a FEN string.
func ParseMaterial(fen string) (Material, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return Material{}, ErrInvalidFEN
	}

	var m Material
	for _, ch := range parts[0] {
		side := &m.White
		if ch >= 'a' && ch <= 'z' {
			side = &m.Black
		}
		switch ch {
		case 'P', 'p':
			side.Pawns++
		case 'N', 'n':
			side.Knights++
		case 'B', 'b':
			side.Bishops++
		case 'R', 'r':
			side.Rooks++
		case 'Q', 'q':
			side.Queens++
		case 'K', 'k':
			side.Kings++
		case '/', '1', '2', '3', '4', '5', '6', '7', '8':
		default:
			return Material{}, ErrInvalidFEN
		}
	}

	return m, nil
}

// SideToMove returns "w" or "b" from a FEN string.
func SideToMove(fen string) (string, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return "", ErrInvalidFEN
	}
	if parts[1] != "w" && parts[1] != "b" {
		return "", ErrInvalidFEN
	}
	return parts[1], nil
}

// isValidPiecePlacement validates the piece placement part of a FEN.
func isValidPiecePlacement(placement string) bool {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return false
	}

	for _, rank := range ranks {
		squares := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				squares += int(ch - '0')
			case strings.ContainsRune("PNBRQKpnbrqk", ch):
				squares++
			default:
				return false
			}
		}
		if squares != 8 {
			return false
		}
	}

	return true
}
