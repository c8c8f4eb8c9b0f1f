package board

import (
	"errors"
	"testing"
)

func apply(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s, b)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		if err := b.ApplyMove(m); err != nil {
			t.Fatalf("ApplyMove(%s): %v", s, err)
		}
	}
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	if b.FEN() != StartFEN {
		t.Errorf("FEN() = %q, want %q", b.FEN(), StartFEN)
	}
	if got := b.GenerateLegalMoves().Len(); got != 20 {
		t.Errorf("white has %d moves, want 20", got)
	}
	if b.KingSquare(White) != MustSquare("e1") || b.KingSquare(Black) != MustSquare("e8") {
		t.Errorf("king cache = %v %v", b.KingSquare(White), b.KingSquare(Black))
	}
	if b.PieceAt(Square{Row: 0, Col: 0}) != BlackRook {
		t.Error("row 0 should hold Black's back rank")
	}
	if b.PieceAt(NoSquare) != NoPiece {
		t.Error("off-board squares should read as empty")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}
	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := b.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
	}
}

func TestParseFENRejectsInvalid(t *testing.T) {
	bad := []string{
		"",
		"8/8/8/8/8/8/8/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K2K w - - 0 1",
		"P3k3/8/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 x - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 w X - 0 1",
		"4k3/9/8/8/8/8/8/4K3 w - - 0 1",
		// Black is in check with White to move.
		"4k3/4R3/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/r3K3 b - - 0 1",
		// En passant target occupied, on the wrong rank, or without a pawn.
		"4k3/8/3N4/3pP3/8/8/8/4K3 w - d6 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d3 0 1",
		"4k3/8/8/3nP3/8/8/8/4K3 w - d6 0 1",
		"4k3/3p4/8/3pP3/8/8/8/4K3 w - d6 0 1",
		"4k3/8/8/8/3Pp3/8/8/4K3 w - d3 0 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidPosition", fen, err)
		}
	}
}

func TestParseFENEnPassant(t *testing.T) {
	for fen, want := range map[string]string{
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1": "d6",
		"4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 1": "d3",
		"4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1":  "-",
	} {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := b.EnPassantTarget().String(); got != want {
			t.Errorf("%s: en passant target = %s, want %s", fen, got, want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Clone()
	apply(t, c, "e2e4", "e7e5", "e1e2")

	if !b.Equal(NewBoard()) {
		t.Error("mutating the clone changed the original")
	}
	if c.KingSquare(White) != MustSquare("e2") {
		t.Errorf("clone king cache = %v, want e2", c.KingSquare(White))
	}
	if b.KingSquare(White) != MustSquare("e1") {
		t.Errorf("original king cache = %v, want e1", b.KingSquare(White))
	}
}

func TestApplyMoveErrors(t *testing.T) {
	tests := []struct {
		name string
		move Move
		want error
	}{
		{"off board", NewMove(Square{Row: 8, Col: 0}, MustSquare("a3")), ErrInvalidPosition},
		{"empty square", NewMove(MustSquare("e4"), MustSquare("e5")), ErrNoPieceSelected},
		{"wrong turn", NewMove(MustSquare("e7"), MustSquare("e5")), ErrWrongTurn},
		{"illegal", NewMove(MustSquare("e2"), MustSquare("e5")), ErrInvalidMove},
		{"promotion off last rank", NewPromotion(MustSquare("e2"), MustSquare("e4"), Queen), ErrInvalidMove},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBoard()
			err := b.ApplyMove(tc.move)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ApplyMove(%v) error = %v, want %v", tc.move, err, tc.want)
			}
			if !b.Equal(NewBoard()) {
				t.Error("failed move changed the board")
			}
		})
	}
}

func TestLegalMovesNeverLeaveKingAttacked(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	}
	for _, fen := range fens {
		b := MustParseFEN(fen)
		us := b.SideToMove()
		moves := b.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			c := b.Clone()
			c.MakeMove(moves.Get(i))
			if c.InCheck(us) {
				t.Errorf("%s: %v leaves %v king attacked", fen, moves.Get(i), us)
			}
		}
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	b := MustParseFEN("4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	if n := b.LegalMoves(MustSquare("e2")).Len(); n != 0 {
		t.Errorf("pinned bishop has %d moves, want 0", n)
	}
}

func TestLegalMovesForOpponentPieceIsEmpty(t *testing.T) {
	b := NewBoard()
	if n := b.LegalMoves(MustSquare("e7")).Len(); n != 0 {
		t.Errorf("black pawn has %d moves on White's turn", n)
	}
	if n := b.LegalMoves(MustSquare("e4")).Len(); n != 0 {
		t.Errorf("empty square has %d moves", n)
	}
}

func TestEnPassantWindow(t *testing.T) {
	b := MustParseFEN("4k3/3p4/8/4P3/8/8/8/4K3 b - - 0 1")
	e5, d6 := MustSquare("e5"), MustSquare("d6")

	apply(t, b, "d7d5")
	if b.EnPassantTarget() != d6 {
		t.Fatalf("en passant target = %v, want d6", b.EnPassantTarget())
	}

	m, ok := b.LegalMoves(e5).Find(e5, d6)
	if !ok || !m.IsEnPassant() {
		t.Fatalf("expected en passant e5d6 to be legal, got %v", m)
	}

	// Capturing removes the pawn that advanced.
	c := b.Clone()
	if err := c.ApplyMove(NewMove(e5, d6)); err != nil {
		t.Fatalf("ApplyMove(e5d6): %v", err)
	}
	if !c.PieceAt(MustSquare("d5")).IsEmpty() {
		t.Error("captured pawn still on d5")
	}
	if c.PieceAt(d6) != WhitePawn {
		t.Error("capturing pawn not on d6")
	}

	// One ply later the right is gone.
	apply(t, b, "e1d1", "e8d8")
	if b.EnPassantTarget() != NoSquare {
		t.Errorf("en passant target = %v, want none", b.EnPassantTarget())
	}
	if b.LegalMoves(e5).Contains(e5, d6) {
		t.Error("en passant should be illegal after an intervening move")
	}
}

func TestEnPassantNeedsEnemyPawn(t *testing.T) {
	// Target square set but the adjacent piece is a knight.
	b := MustParseFEN("4k3/8/8/3nP3/8/8/8/4K3 w - - 0 1")
	b.enPassant = MustSquare("d6")
	if b.LegalMoves(MustSquare("e5")).Contains(MustSquare("e5"), MustSquare("d6")) {
		t.Error("en passant generated without an enemy pawn to capture")
	}
}

func TestCastling(t *testing.T) {
	e1, g1, c1 := MustSquare("e1"), MustSquare("g1"), MustSquare("c1")

	tests := []struct {
		name      string
		fen       string
		kingSide  bool
		queenSide bool
	}{
		{"both available", "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, true},
		{"no rights", "4k3/8/8/8/8/8/8/R3K2R w - - 0 1", false, false},
		{"queen side blocked", "4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1", true, false},
		{"king side blocked", "4k3/8/8/8/8/8/8/R3K1NR w KQ - 0 1", false, true},
		{"king in check", "4r1k1/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, false},
		{"transit attacked", "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"landing attacked", "2r1k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, false},
		{"b-file attack allowed", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := MustParseFEN(tc.fen)
			moves := b.LegalMoves(e1)
			if got := moves.Contains(e1, g1); got != tc.kingSide {
				t.Errorf("king side castle legal = %v, want %v", got, tc.kingSide)
			}
			if got := moves.Contains(e1, c1); got != tc.queenSide {
				t.Errorf("queen side castle legal = %v, want %v", got, tc.queenSide)
			}
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	b := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	apply(t, b, "e1g1", "e8c8")

	want := "2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2"
	if got := b.FEN(); got != want {
		t.Errorf("FEN() = %q, want %q", got, want)
	}
	if b.KingSquare(White) != MustSquare("g1") || b.KingSquare(Black) != MustSquare("c8") {
		t.Errorf("king cache = %v %v", b.KingSquare(White), b.KingSquare(Black))
	}
}

func TestCastlingRightsRevoked(t *testing.T) {
	tests := []struct {
		name  string
		moves []string
		want  CastlingRights
	}{
		{"king moves", []string{"e1e2"}, BlackKingSideCastle | BlackQueenSideCastle},
		{"rook moves and returns", []string{"h1h2", "a8a7", "h2h1"}, WhiteQueenSideCastle | BlackKingSideCastle},
		{"rook captured", []string{"a1a8"}, WhiteKingSideCastle | BlackKingSideCastle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
			apply(t, b, tc.moves...)
			if b.CastlingRights() != tc.want {
				t.Errorf("castling rights = %v, want %v", b.CastlingRights(), tc.want)
			}
		})
	}
}

func TestPromotion(t *testing.T) {
	a7, a8 := MustSquare("a7"), MustSquare("a8")

	b := MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err := b.ApplyMove(NewMove(a7, a8)); err != nil {
		t.Fatal(err)
	}
	if b.PieceAt(a8) != WhiteQueen {
		t.Errorf("default promotion = %v, want Q", b.PieceAt(a8))
	}

	b = MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err := b.ApplyMove(NewPromotion(a7, a8, Knight)); err != nil {
		t.Fatal(err)
	}
	if b.PieceAt(a8) != WhiteKnight {
		t.Errorf("promotion = %v, want N", b.PieceAt(a8))
	}

	b = MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err := b.ApplyMove(NewPromotion(a7, a8, King)); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("promotion to king error = %v, want ErrInvalidMove", err)
	}
}

func TestParseMove(t *testing.T) {
	b := MustParseFEN("r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq d6 0 1")

	tests := []struct {
		in   string
		flag MoveFlag
	}{
		{"e1g1", FlagCastle},
		{"e5d6", FlagEnPassant},
		{"a1a8", FlagNormal},
	}
	for _, tc := range tests {
		m, err := ParseMove(tc.in, b)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", tc.in, err)
		}
		if m.Flags != tc.flag {
			t.Errorf("ParseMove(%s) flags = %v, want %v", tc.in, m.Flags, tc.flag)
		}
		if m.String() != tc.in {
			t.Errorf("String() = %s, want %s", m.String(), tc.in)
		}
	}

	if _, err := ParseMove("e7e8x", b); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("bad promotion letter error = %v", err)
	}
	if _, err := ParseMove("z9a1", b); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("bad square error = %v", err)
	}
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]Color{"white": White, "W": White, "Black": Black, "b": Black} {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if c, err := ParseColor("red"); err == nil || c != NoColor {
		t.Errorf("ParseColor(red) = %v, %v; want error", c, err)
	}
}
