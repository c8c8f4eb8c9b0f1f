package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

// Positions without reachable promotions or contested castling, where the
// generator must agree exactly with independent implementations.
var oracleCases = []struct {
	name  string
	fen   string
	depth int
}{
	{"start", StartFEN, 3},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
	{"italian", "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3", 3},
	{"en passant", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", 3},
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) int64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		undo()
	}
	return nodes
}

func notnilPerft(pos *chess.Position, depth int) int64 {
	moves := pos.ValidMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		nodes += notnilPerft(pos.Update(m), depth-1)
	}
	return nodes
}

func TestPerftMatchesDragontooth(t *testing.T) {
	for _, tc := range oracleCases {
		t.Run(tc.name, func(t *testing.T) {
			ref := dragontoothmg.ParseFen(tc.fen)
			want := dragontoothPerft(&ref, tc.depth)
			got := perft(MustParseFEN(tc.fen), tc.depth)
			if got != want {
				t.Errorf("perft(%d) = %d, dragontoothmg says %d", tc.depth, got, want)
			}
		})
	}
}

func TestPerftMatchesNotnil(t *testing.T) {
	for _, tc := range oracleCases {
		t.Run(tc.name, func(t *testing.T) {
			opt, err := chess.FEN(tc.fen)
			if err != nil {
				t.Fatalf("chess.FEN: %v", err)
			}
			game := chess.NewGame(opt)
			want := notnilPerft(game.Position(), tc.depth)
			got := perft(MustParseFEN(tc.fen), tc.depth)
			if got != want {
				t.Errorf("perft(%d) = %d, notnil/chess says %d", tc.depth, got, want)
			}
		})
	}
}

// Every move the reference generator lists from the start position exists
// in ours, and vice versa.
func TestStartMovesMatchNotnil(t *testing.T) {
	opt, err := chess.FEN(StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	ref := chess.NewGame(opt).ValidMoves()

	b := NewBoard()
	ours := b.GenerateLegalMoves()
	if ours.Len() != len(ref) {
		t.Fatalf("got %d moves, reference has %d", ours.Len(), len(ref))
	}
	for _, m := range ref {
		from, to := MustSquare(m.S1().String()), MustSquare(m.S2().String())
		if !ours.Contains(from, to) {
			t.Errorf("missing move %s%s", from, to)
		}
	}
}
