package search

import (
	"fmt"
	"math/rand"

	"github.com/discochess/alphabeta/internal/board"
	"github.com/discochess/alphabeta/internal/eval"
)

// node is a hand-built game tree. A node without children is over unless
// open is set.
type node struct {
	score    int // material balance in pawns
	mate     bool
	stale    bool
	open     bool
	children []*node
}

func leaf(score int) *node { return &node{score: score} }

func branch(children ...*node) *node { return &node{children: children} }

type treeMove int

func (m treeMove) String() string { return fmt.Sprintf("m%d", int(m)) }

// treePosition walks a node tree through the board.Position interface.
type treePosition struct {
	path       []*node
	whiteFirst bool
	pushes     int
	pops       int
}

var _ board.Position = (*treePosition)(nil)

func newTree(root *node, whiteToMove bool) *treePosition {
	return &treePosition{path: []*node{root}, whiteFirst: whiteToMove}
}

func (p *treePosition) cur() *node { return p.path[len(p.path)-1] }

func (p *treePosition) WhiteToMove() bool {
	return (len(p.path)%2 == 1) == p.whiteFirst
}

func (p *treePosition) LegalMoves() []board.Move {
	moves := make([]board.Move, 0, len(p.cur().children))
	for i := range p.cur().children {
		moves = append(moves, treeMove(i))
	}
	return moves
}

func (p *treePosition) Push(m board.Move) {
	p.path = append(p.path, p.cur().children[m.(treeMove)])
	p.pushes++
}

func (p *treePosition) Pop() {
	if len(p.path) == 1 {
		panic("tree: pop without push")
	}
	p.path = p.path[:len(p.path)-1]
	p.pops++
}

func (p *treePosition) IsCheckmate() bool            { return p.cur().mate }
func (p *treePosition) IsStalemate() bool            { return p.cur().stale }
func (p *treePosition) IsInsufficientMaterial() bool { return false }
func (p *treePosition) IsSeventyFiveMoves() bool     { return false }
func (p *treePosition) IsFivefoldRepetition() bool   { return false }
func (p *treePosition) CanClaimDraw() bool           { return false }

func (p *treePosition) IsGameOver() bool {
	n := p.cur()
	return n.mate || n.stale || (len(n.children) == 0 && !n.open)
}

func (p *treePosition) Inventory() board.Inventory {
	var inv board.Inventory
	if s := p.cur().score; s > 0 {
		inv.White[board.Pawn] = s
	} else {
		inv.Black[board.Pawn] = -s
	}
	return inv
}

// unitEvaluator scores a tree node as its pawn balance.
func unitEvaluator() *eval.Evaluator {
	return eval.NewEvaluator(eval.Weights{Pawn: 1})
}

// plainMinimax is an unpruned reference search.
func plainMinimax(e *eval.Evaluator, pos board.Position, depth int) eval.Score {
	if depth == 0 || pos.IsGameOver() || eval.IsDraw(pos) {
		return e.Evaluate(pos)
	}
	white := pos.WhiteToMove()
	best := eval.WhiteMates
	if white {
		best = eval.BlackMates
	}
	for _, m := range pos.LegalMoves() {
		pos.Push(m)
		score := plainMinimax(e, pos, depth-1)
		pos.Pop()
		if white {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func randomTree(rng *rand.Rand, height int) *node {
	n := leaf(rng.Intn(41) - 20)
	if height == 0 || rng.Intn(6) == 0 {
		switch rng.Intn(12) {
		case 0:
			n.mate = true
		case 1:
			n.stale = true
		}
		return n
	}
	for range 1 + rng.Intn(4) {
		n.children = append(n.children, randomTree(rng, height-1))
	}
	return n
}
