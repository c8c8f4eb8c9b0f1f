package engine

import (
	"math/rand"
	"testing"

	"github.com/hailam/gridchess/internal/board"
)

func TestSearchBasic(t *testing.T) {
	b := board.NewBoard()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	move := eng.Search(b)
	if move.IsNone() {
		t.Fatal("Search returned NoMove for starting position")
	}
	if !b.GenerateLegalMoves().Contains(move.From, move.To) {
		t.Errorf("Search returned illegal move %s", move)
	}
	t.Logf("Best move: %s", move)
}

func TestDepthOnePrefersWinningCapture(t *testing.T) {
	b := board.MustParseFEN("4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")

	move, score := NewSearcher().GetBestMove(b, board.White, 1)
	if move.String() != "d2d5" {
		t.Errorf("best move = %s, want d2d5", move)
	}
	if score <= 0 {
		t.Errorf("score after winning the queen = %d, want > 0", score)
	}
}

func TestGetBestMoveDoesNotMutateBoard(t *testing.T) {
	b := board.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := b.Clone()
	snap := b.Snapshot()

	NewSearcher().GetBestMove(b, board.White, 2)

	if !b.Equal(before) {
		t.Error("search modified the board")
	}
	if b.Snapshot() != snap {
		t.Error("search modified the grid")
	}
}

func TestFindsMateInOne(t *testing.T) {
	b := board.MustParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	for depth := 1; depth <= 3; depth++ {
		move, score := NewSearcher().GetBestMove(b, board.White, depth)
		if depth == 1 {
			// A single ply cannot see the mate, only the evaluation.
			continue
		}
		if move.String() != "a1a8" {
			t.Errorf("depth %d: best move = %s, want a1a8", depth, move)
		}
		if got := ScoreToString(score); got != "Mate in 1" {
			t.Errorf("depth %d: score %d = %q, want Mate in 1", depth, score, got)
		}
	}
}

func TestAvoidsBackRankMate(t *testing.T) {
	// Ra1 mates unless White makes room for the king.
	b := board.MustParseFEN("r5k1/8/8/8/8/8/5PPP/6K1 w - - 0 1")

	move, score := NewSearcher().GetBestMove(b, board.White, 3)
	if move.IsNone() {
		t.Fatal("no move found")
	}
	if score < -MateScore+MaxDepth {
		t.Errorf("move %s allows mate (score %d)", move, score)
	}

	c := b.Clone()
	c.MakeMove(move)
	replies := c.GenerateLegalMoves()
	for i := 0; i < replies.Len(); i++ {
		after := c.Clone()
		after.MakeMove(replies.Get(i))
		if after.IsCheckmate() {
			t.Errorf("%s %s is mate", move, replies.Get(i))
		}
	}
}

func TestNoMoveWhenGameOver(t *testing.T) {
	b := board.MustParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if m, _ := NewSearcher().GetBestMove(b, board.Black, 3); !m.IsNone() {
		t.Errorf("checkmated side got move %s", m)
	}

	if m, _ := NewSearcher().GetBestMove(board.NewBoard(), board.Black, 2); !m.IsNone() {
		t.Errorf("side not to move got move %s", m)
	}
}

func TestSearchPromotesToQueen(t *testing.T) {
	b := board.MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")

	move, _ := NewSearcher().GetBestMove(b, board.White, 1)
	if move.String() != "a7a8q" {
		t.Errorf("best move = %s, want a7a8q", move)
	}
	if move.Promotion != board.Queen {
		t.Errorf("promotion = %v, want Queen", move.Promotion)
	}
}

func TestEvaluate(t *testing.T) {
	start := board.NewBoard()
	if got := Evaluate(start, board.White); got != 0 {
		t.Errorf("start position White eval = %d, want 0", got)
	}
	if got := Evaluate(start, board.Black); got != 0 {
		t.Errorf("start position Black eval = %d, want 0", got)
	}

	b := board.MustParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	w, bl := Evaluate(b, board.White), Evaluate(b, board.Black)
	if w != -bl {
		t.Errorf("eval not antisymmetric: %d vs %d", w, bl)
	}
	if w < QueenValue-50 {
		t.Errorf("queen up eval = %d", w)
	}
}

func TestPositionBonusMirrors(t *testing.T) {
	e4, e5 := board.MustSquare("e4"), board.MustSquare("e5")
	if PositionBonus(board.WhitePawn, e4) != PositionBonus(board.BlackPawn, e5) {
		t.Error("pawn bonus is not mirrored for Black")
	}
	if PositionBonus(board.WhitePawn, e4) <= PositionBonus(board.WhitePawn, board.MustSquare("e2")) {
		t.Error("central pawn should score above its starting square")
	}
	if PositionBonus(board.WhiteKnight, board.MustSquare("a1")) >= PositionBonus(board.WhiteKnight, board.MustSquare("d4")) {
		t.Error("corner knight should score below a central one")
	}
}

func TestBeginnerPrefersCaptures(t *testing.T) {
	b := board.MustParseFEN("4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	p := NewBeginnerPlayer(rand.New(rand.NewSource(1)))

	for i := 0; i < 20; i++ {
		if m := p.Choose(b); m.String() != "d2d5" {
			t.Fatalf("beginner chose %s with a capture available", m)
		}
	}
}

func TestBeginnerIsReproducible(t *testing.T) {
	b := board.NewBoard()
	a := NewBeginnerPlayer(rand.New(rand.NewSource(42)))
	c := NewBeginnerPlayer(rand.New(rand.NewSource(42)))

	for i := 0; i < 10; i++ {
		m1, m2 := a.Choose(b), c.Choose(b)
		if m1 != m2 {
			t.Fatalf("same seed gave %s and %s", m1, m2)
		}
		if !b.GenerateLegalMoves().Contains(m1.From, m1.To) {
			t.Fatalf("illegal move %s", m1)
		}
	}
}

func TestEngineBeginnerDifficulty(t *testing.T) {
	eng := NewEngine()
	eng.SetDifficulty(Beginner)
	eng.SetRand(rand.New(rand.NewSource(7)))

	b := board.MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	for i := 0; i < 10; i++ {
		m := eng.Search(b)
		if m.IsNone() {
			t.Fatal("beginner returned NoMove")
		}
		if b.IsPromotionMove(m) && m.Promotion != board.Queen {
			t.Errorf("beginner promoted to %v", m.Promotion)
		}
	}
}

func TestOnInfo(t *testing.T) {
	eng := NewEngine()
	var got []SearchInfo
	eng.OnInfo = func(info SearchInfo) { got = append(got, info) }

	move := eng.BestMove(board.NewBoard(), board.White, 2)

	if len(got) != 1 {
		t.Fatalf("OnInfo called %d times, want 1", len(got))
	}
	if got[0].Depth != 2 || got[0].Nodes == 0 || got[0].Move != move {
		t.Errorf("unexpected info %+v", got[0])
	}
	t.Logf("depth %d score %s nodes %d time %v", got[0].Depth, ScoreToString(got[0].Score), got[0].Nodes, got[0].Time)
}

func TestPerft(t *testing.T) {
	b := board.NewBoard()
	tests := []struct {
		depth int
		want  uint64
	}{
		{0, 1},
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, tc := range tests {
		if got := Perft(b, tc.depth); got != tc.want {
			t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.want)
		}
	}

	div := Divide(b, 2)
	if len(div) != 20 || div["e2e4"] != 20 {
		t.Errorf("Divide(2) = %v", div)
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-205, "-2.05"},
		{MateScore - 1, "Mate in 1"},
		{MateScore - 3, "Mate in 2"},
		{-MateScore + 2, "Mated in 1"},
	}
	for _, tc := range tests {
		if got := ScoreToString(tc.score); got != tc.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for d, limits := range DifficultySettings {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d.String(), got, err)
		}
		if d != Beginner && limits.Depth < 1 {
			t.Errorf("%v has depth %d", d, limits.Depth)
		}
	}
	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

// minimax is alphaBeta without pruning or move ordering.
func minimax(b *board.Board, aiColor board.Color, depth, ply int) int {
	if depth == 0 {
		return Evaluate(b, aiColor)
	}
	maximizing := b.SideToMove() == aiColor
	moves := b.GenerateLegalMoves().Slice()
	if len(moves) == 0 {
		if !b.InCheck(b.SideToMove()) {
			return 0
		}
		if maximizing {
			return -MateScore + ply
		}
		return MateScore - ply
	}

	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range moves {
		child := b.Clone()
		child.MakeMove(m)
		score := minimax(child, aiColor, depth-1, ply+1)
		if maximizing && score > best || !maximizing && score < best {
			best = score
		}
	}
	return best
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r5k1/8/8/8/8/8/5PPP/6K1 w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
	}
	if !testing.Short() {
		fens = append(fens, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	}

	const depth = 3
	s := NewSearcher()
	for _, fen := range fens {
		b := board.MustParseFEN(fen)
		color := b.SideToMove()
		_, got := s.GetBestMove(b, color, depth)
		want := minimax(b, color, depth, 0)
		if got != want {
			t.Errorf("%s: alpha-beta score %d, minimax %d", fen, got, want)
		}
		t.Logf("%s: score %d, %d nodes", fen, got, s.Nodes())
	}
}
