package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Board.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: FEN needs at least 4 fields, got %d", ErrInvalidPosition, len(parts))
	}

	b := newEmptyBoard()

	// Piece placement (field 0)
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	// Side to move (field 1)
	switch parts[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrInvalidPosition, parts[1])
	}

	// Castling rights (field 2)
	if err := parseCastlingRights(b, parts[2]); err != nil {
		return nil, err
	}

	// En passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %w", err)
		}
		b.enPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid half-move clock %q", ErrInvalidPosition, parts[4])
		}
		b.halfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid full-move number %q", ErrInvalidPosition, parts[5])
		}
		b.fullMoveNumber = fmn
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	if b.InCheck(b.sideToMove.Other()) {
		return nil, fmt.Errorf("%w: %s king can be captured", ErrInvalidPosition, b.sideToMove.Other())
	}
	if err := b.checkEnPassant(); err != nil {
		return nil, err
	}
	b.dropStaleCastlingRights()

	return b, nil
}

// checkEnPassant verifies that the en passant target could follow a double
// pawn advance by the side that just moved.
func (b *Board) checkEnPassant() error {
	ep := b.enPassant
	if ep == NoSquare {
		return nil
	}
	pusher := b.sideToMove.Other()
	pawn := ep.Offset(pusher.Forward(), 0)
	start := ep.Offset(-pusher.Forward(), 0)
	switch {
	case start.Row != pusher.PawnRow():
		return fmt.Errorf("%w: en passant square %s on the wrong rank", ErrInvalidPosition, ep)
	case !b.IsEmpty(ep) || !b.IsEmpty(start):
		return fmt.Errorf("%w: en passant square %s is not vacated", ErrInvalidPosition, ep)
	case b.PieceAt(pawn) != NewPiece(Pawn, pusher):
		return fmt.Errorf("%w: no %s pawn behind en passant square %s", ErrInvalidPosition, pusher, ep)
	}
	return nil
}

// MustParseFEN is ParseFEN for literals known to be valid.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// parsePiecePlacement fills the grid from the first FEN field. FEN lists
// rank 8 first, which is row 0.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidPosition, len(ranks))
	}

	for row, rankStr := range ranks {
		col := 0
		for _, c := range rankStr {
			if col > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidPosition, 8-row)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character %c", ErrInvalidPosition, c)
			}
			if piece.Type() == King && b.kings[piece.Color()].IsValid() {
				return fmt.Errorf("%w: more than one %s king", ErrInvalidPosition, piece.Color())
			}
			b.setPiece(piece, Square{Row: row, Col: col})
			col++
		}

		if col != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidPosition, 8-row, col)
		}
	}

	return nil
}

func parseCastlingRights(b *Board, castling string) error {
	if castling == "-" {
		b.castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			b.castling |= WhiteKingSideCastle
		case 'Q':
			b.castling |= WhiteQueenSideCastle
		case 'k':
			b.castling |= BlackKingSideCastle
		case 'q':
			b.castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("%w: invalid castling character %c", ErrInvalidPosition, c)
		}
	}

	return nil
}

// dropStaleCastlingRights clears rights whose king or rook is not on its
// home square.
func (b *Board) dropStaleCastlingRights() {
	for _, c := range [2]Color{White, Black} {
		row := c.HomeRow()
		if b.grid[row][kingStartCol] != NewPiece(King, c) {
			b.castling &^= castleRight(c, true) | castleRight(c, false)
		}
		if b.grid[row][kingSideRookCol] != NewPiece(Rook, c) {
			b.castling &^= castleRight(c, true)
		}
		if b.grid[row][queenSideRookCol] != NewPiece(Rook, c) {
			b.castling &^= castleRight(c, false)
		}
	}
}

// FEN returns the FEN representation of the board.
func (b *Board) FEN() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := b.grid[row][col]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMoveNumber))

	return sb.String()
}
