package engine

import (
	"math/rand"

	"github.com/hailam/gridchess/internal/board"
)

// BeginnerPlayer picks a random capture when one exists, otherwise a
// random legal move. Pawns always promote to a Queen.
type BeginnerPlayer struct {
	rng *rand.Rand
}

// NewBeginnerPlayer creates a player drawing from rng.
func NewBeginnerPlayer(rng *rand.Rand) *BeginnerPlayer {
	return &BeginnerPlayer{rng: rng}
}

// Choose returns a move for the side to move, or NoMove if there is none.
func (p *BeginnerPlayer) Choose(b *board.Board) board.Move {
	moves := b.GenerateLegalMoves().Slice()
	if len(moves) == 0 {
		return board.NoMove
	}

	var captures []board.Move
	for _, m := range moves {
		if m.IsCapture(b) {
			captures = append(captures, m)
		}
	}

	pool := moves
	if len(captures) > 0 {
		pool = captures
	}
	m := pool[p.rng.Intn(len(pool))]
	if b.IsPromotionMove(m) {
		m = m.WithPromotion(board.Queen)
	}
	return m
}
