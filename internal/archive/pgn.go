package archive

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var tagEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EncodeGame renders g as PGN with moves in standard algebraic notation,
// whatever notation g itself uses. A Result tag on g overrides g's own
// outcome. Games that do not start from the initial position get SetUp and
// FEN tags.
func EncodeGame(g *chess.Game) []byte {
	var b bytes.Buffer

	tags := make(map[string]string)
	for _, tp := range g.TagPairs() {
		tags[tp.Key] = tp.Value
		fmt.Fprintf(&b, "[%s \"%s\"]\n", tp.Key, tagEscaper.Replace(tp.Value))
	}
	result, ok := tags["Result"]
	if !ok {
		result = string(g.Outcome())
		fmt.Fprintf(&b, "[Result \"%s\"]\n", result)
	}

	positions := g.Positions()
	start := positions[0].String()
	if _, ok := tags["FEN"]; !ok && start != startFEN {
		fmt.Fprintf(&b, "[SetUp \"1\"]\n[FEN \"%s\"]\n", start)
	}
	b.WriteString("\n")

	var san chess.AlgebraicNotation
	for i, m := range g.Moves() {
		pos := positions[i]
		switch {
		case pos.Turn() == chess.White:
			fmt.Fprintf(&b, "%d. ", fullMoveNumber(pos))
		case i == 0:
			fmt.Fprintf(&b, "%d... ", fullMoveNumber(pos))
		}
		b.WriteString(san.Encode(pos, m))
		b.WriteString(" ")
	}
	b.WriteString(result)
	b.WriteString("\n")
	return b.Bytes()
}

// DecodeGame parses a PGN record.
func DecodeGame(pgn []byte) (*chess.Game, error) {
	opt, err := chess.PGN(bytes.NewReader(pgn))
	if err != nil {
		return nil, fmt.Errorf("parsing PGN: %w", err)
	}
	return chess.NewGame(opt), nil
}

func fullMoveNumber(pos *chess.Position) int {
	fields := strings.Fields(pos.String())
	if len(fields) < 6 {
		return 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
