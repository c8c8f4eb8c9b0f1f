package engine

import (
	"github.com/hailam/gridchess/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxDepth  = 64
)

// Searcher performs a fixed-depth alpha-beta search on clones of the board.
// A Searcher is not safe for concurrent use.
type Searcher struct {
	aiColor board.Color
	nodes   uint64
	orderer *MoveOrderer
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{orderer: NewMoveOrderer()}
}

// Nodes returns the number of nodes searched by the last call.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// GetBestMove returns the best move for aiColor searched to depth plies and
// its score from aiColor's side. It returns NoMove when aiColor is not to
// move or has no legal moves. The board passed in is never modified.
//
// Root moves are searched in generation order with a full window each, and
// only a strictly better score replaces the current best.
func (s *Searcher) GetBestMove(b *board.Board, aiColor board.Color, depth int) (board.Move, int) {
	s.aiColor = aiColor
	s.nodes = 0
	s.orderer.Clear()

	if b.SideToMove() != aiColor {
		return board.NoMove, 0
	}
	depth = clampDepth(depth)

	moves := b.GenerateLegalMoves().Slice()
	if len(moves) == 0 {
		return board.NoMove, 0
	}

	bestMove := board.NoMove
	bestScore := -Infinity - 1
	for _, m := range moves {
		if b.IsPromotionMove(m) {
			m = m.WithPromotion(board.Queen)
		}
		child := b.Clone()
		child.MakeMove(m)
		score := s.alphaBeta(child, depth-1, 1, -Infinity, Infinity, false)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
	}
	return bestMove, bestScore
}

func clampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}

// alphaBeta returns the minimax value of b from the AI's side. The side to
// move at b is the AI when maximizing is true. ply is the distance from the
// root and makes nearer mates score more extreme than distant ones.
func (s *Searcher) alphaBeta(b *board.Board, depth, ply, alpha, beta int, maximizing bool) int {
	s.nodes++

	if depth == 0 {
		return Evaluate(b, s.aiColor)
	}

	moves := b.GenerateLegalMoves().Slice()
	if len(moves) == 0 {
		if b.InCheck(b.SideToMove()) {
			if maximizing {
				return -MateScore + ply
			}
			return MateScore - ply
		}
		return 0
	}

	SortMoves(moves, s.orderer.ScoreMoves(b, moves, ply))

	if maximizing {
		best := -Infinity
		for _, m := range moves {
			child := b.Clone()
			child.MakeMove(m)
			score := s.alphaBeta(child, depth-1, ply+1, alpha, beta, false)
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
			if beta <= alpha {
				s.recordCutoff(b, m, depth, ply)
				break
			}
		}
		return best
	}

	best := Infinity
	for _, m := range moves {
		child := b.Clone()
		child.MakeMove(m)
		score := s.alphaBeta(child, depth-1, ply+1, alpha, beta, true)
		if score < best {
			best = score
		}
		if score < beta {
			beta = score
		}
		if beta <= alpha {
			s.recordCutoff(b, m, depth, ply)
			break
		}
	}
	return best
}

func (s *Searcher) recordCutoff(b *board.Board, m board.Move, depth, ply int) {
	if m.IsCapture(b) || b.IsPromotionMove(m) {
		return
	}
	s.orderer.UpdateKillers(m, ply)
	s.orderer.UpdateHistory(m, depth)
}
