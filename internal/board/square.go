// Package board implements the chess board, move generation and game status rules.
package board

import "fmt"

// Square identifies a cell of the 8x8 grid.
// Row 0 is Black's back rank (rank 8) and Row 7 is White's back rank (rank 1);
// Col 0 is the a-file. Squares compare by value.
type Square struct {
	Row int
	Col int
}

// NoSquare is the sentinel for "no square" (e.g. no en passant target).
var NoSquare = Square{Row: -1, Col: -1}

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	return Square{Row: row, Col: col}
}

// IsValid returns true if both coordinates lie inside 0..7.
func (sq Square) IsValid() bool {
	return sq.Row >= 0 && sq.Row < 8 && sq.Col >= 0 && sq.Col < 8
}

// Offset returns the square shifted by dr rows and dc columns.
// The result may be off the board; check IsValid.
func (sq Square) Offset(dr, dc int) Square {
	return Square{Row: sq.Row + dr, Col: sq.Col + dc}
}

// Mirror returns the square reflected top-to-bottom.
func (sq Square) Mirror() Square {
	return Square{Row: 7 - sq.Row, Col: sq.Col}
}

// Rank returns the chess rank number (1-8) of the square.
func (sq Square) Rank() int {
	return 8 - sq.Row
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col, '0'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	col := int(s[0] - 'a')
	rank := int(s[1] - '0')
	sq := Square{Row: 8 - rank, Col: col}
	if s[0] < 'a' || s[1] < '0' || !sq.IsValid() {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return sq, nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}
