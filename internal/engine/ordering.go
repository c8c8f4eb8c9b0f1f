package engine

import (
	"github.com/hailam/gridchess/internal/board"
)

// Move ordering priorities
const (
	GoodCaptureBase = 1000000 // Base score for captures
	PromotionScore  = 950000
	KillerScore1    = 900000 // First killer move
	KillerScore2    = 800000 // Second killer move
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0}, // King can't be captured
}

// MoveOrderer sorts moves below the root so that alpha-beta cuts early.
// Ordering never changes the value of a node, only how much is pruned.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs), per ply
	killers [MaxDepth + 1][2]board.Move

	// History heuristic indexed by [from][to] cell number
	history [64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	mo := &MoveOrderer{}
	mo.Clear()
	return mo
}

// Clear resets the move orderer for a new search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	mo.history = [64][64]int{}
}

func cell(sq board.Square) int {
	return sq.Row*8 + sq.Col
}

// ScoreMoves assigns an ordering score to each move.
func (mo *MoveOrderer) ScoreMoves(b *board.Board, moves []board.Move, ply int) []int {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = mo.scoreMove(b, m, ply)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(b *board.Board, m board.Move, ply int) int {
	attacker := b.PieceAt(m.From).Type()

	if m.IsEnPassant() {
		return GoodCaptureBase + mvvLva[board.Pawn][board.Pawn]
	}
	if victim := b.PieceAt(m.To); !victim.IsEmpty() {
		return GoodCaptureBase + mvvLva[victim.Type()][attacker]
	}
	if b.IsPromotionMove(m) {
		return PromotionScore
	}

	if ply <= MaxDepth {
		if sameSquares(mo.killers[ply][0], m) {
			return KillerScore1
		}
		if sameSquares(mo.killers[ply][1], m) {
			return KillerScore2
		}
	}
	return mo.history[cell(m.From)][cell(m.To)]
}

func sameSquares(a, b board.Move) bool {
	return a.From == b.From && a.To == b.To
}

// SortMoves sorts moves by descending score. Equal scores keep their
// generation order.
func SortMoves(moves []board.Move, scores []int) {
	for i := 1; i < len(moves); i++ {
		m, s := moves[i], scores[i]
		j := i - 1
		for j >= 0 && scores[j] < s {
			moves[j+1], scores[j+1] = moves[j], scores[j]
			j--
		}
		moves[j+1], scores[j+1] = m, s
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply > MaxDepth || sameSquares(mo.killers[ply][0], m) {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory rewards a quiet move that caused a cutoff at depth.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int) {
	h := &mo.history[cell(m.From)][cell(m.To)]
	*h += depth * depth
	// Keep history below the killer band.
	if *h >= KillerScore2 {
		for i := range mo.history {
			for j := range mo.history[i] {
				mo.history[i][j] /= 2
			}
		}
	}
}
