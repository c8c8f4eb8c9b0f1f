package board

import "fmt"

// MoveFlag marks moves that need special handling when applied.
type MoveFlag uint8

// Move flags
const (
	FlagNormal    MoveFlag = 0
	FlagEnPassant MoveFlag = 1 << 0
	FlagCastle    MoveFlag = 1 << 1
)

// Move is a single half-move.
// Promotion is NoPieceType unless the mover chose a promotion piece.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Flags     MoveFlag
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion creates a pawn move that promotes to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType, Flags: FlagEnPassant}
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType, Flags: FlagCastle}
}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m == NoMove
}

// IsPromotion returns true if a promotion piece has been chosen.
func (m Move) IsPromotion() bool {
	return m.Promotion.IsPromotable()
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flags&FlagCastle != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flags&FlagEnPassant != 0
}

// IsCapture returns true if this move captures a piece on b.
func (m Move) IsCapture(b *Board) bool {
	if m.IsEnPassant() {
		return true
	}
	return !b.PieceAt(m.To).IsEmpty()
}

// WithPromotion returns a copy of m promoting to pt.
func (m Move) WithPromotion(pt PieceType) Move {
	m.Promotion = pt
	return m
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a UCI format move string against the position it will be
// played in, so castling and en passant flags are restored.
func ParseMove(s string, b *Board) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		promo := PieceTypeFromChar(s[4])
		if !promo.IsPromotable() {
			return NoMove, fmt.Errorf("%w: invalid promotion piece %c", ErrInvalidMove, s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := b.PieceAt(from)
	if piece.IsEmpty() {
		return NoMove, fmt.Errorf("%w: %s", ErrNoPieceSelected, from)
	}

	switch piece.Type() {
	case King:
		if from.Row == to.Row && abs(to.Col-from.Col) == 2 {
			return NewCastling(from, to), nil
		}
	case Pawn:
		if to == b.EnPassantTarget() && from.Col != to.Col {
			return NewEnPassant(from, to), nil
		}
	}

	return NewMove(from, to), nil
}

// MoveList is an ordered list of moves.
// Order is significant: generation order breaks ties in search.
type MoveList struct {
	moves []Move
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{moves: make([]Move, 0, 32)}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.moves = ml.moves[:0]
}

// Contains returns true if the list contains a move with the same squares.
// Promotion choice is ignored.
func (ml *MoveList) Contains(from, to Square) bool {
	_, ok := ml.Find(from, to)
	return ok
}

// Find returns the listed move from -> to.
func (ml *MoveList) Find(from, to Square) (Move, bool) {
	for _, m := range ml.moves {
		if m.From == from && m.To == to {
			return m, true
		}
	}
	return NoMove, false
}

// Slice returns a copy of the moves.
func (ml *MoveList) Slice() []Move {
	out := make([]Move, len(ml.moves))
	copy(out, ml.moves)
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
