package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
// A right, once cleared, is never granted again.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for _, r := range []struct {
		right CastlingRights
		char  byte
	}{
		{WhiteKingSideCastle, 'K'},
		{WhiteQueenSideCastle, 'Q'},
		{BlackKingSideCastle, 'k'},
		{BlackQueenSideCastle, 'q'},
	} {
		if cr&r.right != 0 {
			sb.WriteByte(r.char)
		}
	}
	return sb.String()
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// Castling geometry shared by move generation and move application.
const (
	kingStartCol       = 4
	kingSideRookCol    = 7
	queenSideRookCol   = 0
	kingSideKingCol    = 6
	queenSideKingCol   = 2
	kingSideRookToCol  = 5
	queenSideRookToCol = 3
)

// Snapshot is a read-only copy of the 8x8 grid, indexed [row][col].
type Snapshot [8][8]Piece

// At returns the piece on sq, or NoPiece for off-board squares.
func (s Snapshot) At(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return s[sq.Row][sq.Col]
}

// Board is a complete chess position.
//
// Board holds only value fields, so a plain struct copy is a full deep copy.
// The king-square cache is maintained by every mutation that moves a king.
type Board struct {
	grid           [8][8]Piece
	sideToMove     Color
	castling       CastlingRights
	enPassant      Square // Square skipped by the last double pawn advance, NoSquare if none
	kings          [2]Square
	halfMoveClock  int // FEN bookkeeping only
	fullMoveNumber int
}

// NewBoard creates the standard starting position.
func NewBoard() *Board {
	b := newEmptyBoard()
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, pt := range back {
		b.setPiece(NewPiece(pt, Black), Square{Row: 0, Col: col})
		b.setPiece(NewPiece(Pawn, Black), Square{Row: 1, Col: col})
		b.setPiece(NewPiece(Pawn, White), Square{Row: 6, Col: col})
		b.setPiece(NewPiece(pt, White), Square{Row: 7, Col: col})
	}
	b.castling = AllCastling
	return b
}

// newEmptyBoard returns a board with no pieces, White to move.
func newEmptyBoard() *Board {
	b := &Board{
		sideToMove:     White,
		enPassant:      NoSquare,
		kings:          [2]Square{NoSquare, NoSquare},
		fullMoveNumber: 1,
	}
	for r := range b.grid {
		for c := range b.grid[r] {
			b.grid[r][c] = NoPiece
		}
	}
	return b
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// Equal reports whether two boards hold identical state.
func (b *Board) Equal(o *Board) bool {
	return *b == *o
}

// PieceAt returns the piece at the given square, or NoPiece if empty or off-board.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return b.grid[sq.Row][sq.Col]
}

// IsEmpty returns true if the square is on the board and empty.
func (b *Board) IsEmpty(sq Square) bool {
	return sq.IsValid() && b.grid[sq.Row][sq.Col] == NoPiece
}

// SideToMove returns the color whose turn it is.
func (b *Board) SideToMove() Color {
	return b.sideToMove
}

// CastlingRights returns the remaining castling rights.
func (b *Board) CastlingRights() CastlingRights {
	return b.castling
}

// EnPassantTarget returns the en passant target, or NoSquare.
func (b *Board) EnPassantTarget() Square {
	return b.enPassant
}

// KingSquare returns the cached location of the color's king.
func (b *Board) KingSquare(c Color) Square {
	return b.kings[c]
}

// FullMoveNumber returns the full-move counter, starting at 1.
func (b *Board) FullMoveNumber() int {
	return b.fullMoveNumber
}

// Snapshot returns a copy of the grid for rendering.
func (b *Board) Snapshot() Snapshot {
	return Snapshot(b.grid)
}

// setPiece places a piece on a square, keeping the king cache current.
func (b *Board) setPiece(p Piece, sq Square) {
	b.grid[sq.Row][sq.Col] = p
	if p.Type() == King {
		b.kings[p.Color()] = sq
	}
}

// ApplyMove validates m against the legal moves of the piece on m.From and
// applies it. A pawn reaching the last rank without a promotion choice
// becomes a Queen.
func (b *Board) ApplyMove(m Move) error {
	if !m.From.IsValid() || !m.To.IsValid() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidPosition, m.From, m.To)
	}
	piece := b.PieceAt(m.From)
	if piece.IsEmpty() {
		return fmt.Errorf("%w: %s is empty", ErrNoPieceSelected, m.From)
	}
	if piece.Color() != b.sideToMove {
		return fmt.Errorf("%w: %s to move", ErrWrongTurn, b.sideToMove)
	}

	legal, ok := b.LegalMoves(m.From).Find(m.From, m.To)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}

	if m.Promotion != NoPieceType {
		if !m.Promotion.IsPromotable() || !b.IsPromotionMove(legal) {
			return fmt.Errorf("%w: cannot promote to %s with %s", ErrInvalidMove, m.Promotion, m)
		}
		legal.Promotion = m.Promotion
	}

	b.makeMove(legal)
	return nil
}

// IsPromotionMove reports whether m moves a pawn onto its last rank.
func (b *Board) IsPromotionMove(m Move) bool {
	p := b.PieceAt(m.From)
	return p.Type() == Pawn && m.To.Row == p.Color().PromotionRow()
}

// makeMove applies a generated move without validation.
func (b *Board) makeMove(m Move) {
	us := b.sideToMove
	from, to := m.From, m.To
	piece := b.grid[from.Row][from.Col]
	pt := piece.Type()
	captured := b.grid[to.Row][to.Col]

	if m.IsEnPassant() {
		victim := Square{Row: from.Row, Col: to.Col}
		captured = b.grid[victim.Row][victim.Col]
		b.grid[victim.Row][victim.Col] = NoPiece
	}

	b.grid[from.Row][from.Col] = NoPiece
	b.setPiece(piece, to)

	if m.IsCastling() {
		rookFrom, rookTo := kingSideRookCol, kingSideRookToCol
		if to.Col == queenSideKingCol {
			rookFrom, rookTo = queenSideRookCol, queenSideRookToCol
		}
		rook := b.grid[from.Row][rookFrom]
		b.grid[from.Row][rookFrom] = NoPiece
		b.grid[from.Row][rookTo] = rook
	}

	if pt == Pawn && to.Row == us.PromotionRow() {
		promo := m.Promotion
		if !promo.IsPromotable() {
			promo = Queen
		}
		b.setPiece(NewPiece(promo, us), to)
	}

	// King moves clear both rights; anything touching a rook corner clears that side.
	if pt == King {
		b.castling &^= castleRight(us, true) | castleRight(us, false)
	}
	b.castling &^= cornerRight(from) | cornerRight(to)

	b.enPassant = NoSquare
	if pt == Pawn && abs(to.Row-from.Row) == 2 {
		b.enPassant = Square{Row: (from.Row + to.Row) / 2, Col: from.Col}
	}

	if pt == Pawn || !captured.IsEmpty() {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if us == Black {
		b.fullMoveNumber++
	}

	b.sideToMove = us.Other()
}

// cornerRight returns the castling right tied to a rook's home square.
func cornerRight(sq Square) CastlingRights {
	switch sq {
	case Square{Row: 7, Col: 0}:
		return WhiteQueenSideCastle
	case Square{Row: 7, Col: 7}:
		return WhiteKingSideCastle
	case Square{Row: 0, Col: 0}:
		return BlackQueenSideCastle
	case Square{Row: 0, Col: 7}:
		return BlackKingSideCastle
	}
	return NoCastling
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	return sb.String()
}

// Validate checks the structural invariants of the position.
func (b *Board) Validate() error {
	var kings [2]int
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() {
				continue
			}
			if p.Type() == King {
				kings[p.Color()]++
				if b.kings[p.Color()] != (Square{Row: row, Col: col}) {
					return fmt.Errorf("%s king cache out of sync", p.Color())
				}
			}
			if p.Type() == Pawn && (row == 0 || row == 7) {
				return fmt.Errorf("pawn on back rank at %s", Square{Row: row, Col: col})
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	return nil
}

// Material returns the material balance (positive favors white), kings excluded.
func (b *Board) Material() int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() || p.Type() == King {
				continue
			}
			if p.Color() == White {
				score += p.Value()
			} else {
				score -= p.Value()
			}
		}
	}
	return score
}
