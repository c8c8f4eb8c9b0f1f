package engine

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/gridchess/internal/board"
)

// SearchInfo contains information about the last search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // Plies to search; 0 selects the Beginner player
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Beginner Difficulty = iota // captures first, otherwise random
	Easy                       // 2 ply
	Medium                     // 3 ply
	Hard                       // 4 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Beginner: {Depth: 0},
	Easy:     {Depth: 2},
	Medium:   {Depth: 3},
	Hard:     {Depth: 4},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "Beginner"
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses a difficulty name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Beginner; d <= Hard; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher   *Searcher
	beginner   *BeginnerPlayer
	difficulty Difficulty

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine at Medium difficulty.
func NewEngine() *Engine {
	return &Engine{
		searcher:   NewSearcher(),
		beginner:   NewBeginnerPlayer(rand.New(rand.NewSource(time.Now().UnixNano()))),
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SetRand replaces the random source of the Beginner player.
func (e *Engine) SetRand(r *rand.Rand) {
	e.beginner = NewBeginnerPlayer(r)
}

// Search finds a move for the side to move at the current difficulty.
func (e *Engine) Search(b *board.Board) board.Move {
	limits := DifficultySettings[e.difficulty]
	return e.SearchWithLimits(b, limits)
}

// SearchWithLimits finds a move for the side to move with specific limits.
func (e *Engine) SearchWithLimits(b *board.Board, limits SearchLimits) board.Move {
	if limits.Depth <= 0 {
		return e.beginner.Choose(b)
	}
	return e.BestMove(b, b.SideToMove(), limits.Depth)
}

// BestMove runs the alpha-beta search for color to depth plies.
func (e *Engine) BestMove(b *board.Board, color board.Color, depth int) board.Move {
	start := time.Now()
	move, score := e.searcher.GetBestMove(b, color, depth)

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: clampDepth(depth),
			Score: score,
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(start),
			Move:  move,
		})
	}
	return move
}

// Perft counts the leaf nodes of the legal move tree to depth plies.
// Promotions count once per destination square.
func Perft(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		child := b.Clone()
		child.MakeMove(moves.Get(i))
		nodes += Perft(child, depth-1)
	}
	return nodes
}

// Divide returns the perft count below each root move.
func Divide(b *board.Board, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth < 1 {
		return out
	}
	moves := b.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		child := b.Clone()
		child.MakeMove(moves.Get(i))
		out[moves.Get(i).String()] = Perft(child, depth-1)
	}
	return out
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-MaxDepth-1 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + strconv.Itoa(mateIn)
	}
	if score < -MateScore+MaxDepth+1 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + strconv.Itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
