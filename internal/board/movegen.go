package board

// Direction vectors as (row, col) deltas.
var (
	rookDirections   = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirections = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirections  = append(append([][2]int{}, rookDirections...), bishopDirections...)
	knightOffsets    = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets      = queenDirections
)

// moveRule appends the pseudo-legal moves of piece p standing on from.
type moveRule func(b *Board, from Square, p Piece, ml *MoveList)

// moveRules maps each piece type to its movement pattern.
var moveRules = [6]moveRule{
	Pawn:   pawnMoves,
	Knight: stepper(knightOffsets),
	Bishop: slider(bishopDirections),
	Rook:   slider(rookDirections),
	Queen:  slider(queenDirections),
	King:   stepper(kingOffsets),
}

// slider walks each direction until blocked. An enemy blocker is included,
// a friendly one is not.
func slider(dirs [][2]int) moveRule {
	return func(b *Board, from Square, p Piece, ml *MoveList) {
		for _, d := range dirs {
			to := from.Offset(d[0], d[1])
			for to.IsValid() {
				target := b.grid[to.Row][to.Col]
				if target.IsEmpty() {
					ml.Add(NewMove(from, to))
				} else {
					if target.Color() != p.Color() {
						ml.Add(NewMove(from, to))
					}
					break
				}
				to = to.Offset(d[0], d[1])
			}
		}
	}
}

// stepper tries each fixed offset once.
func stepper(offsets [][2]int) moveRule {
	return func(b *Board, from Square, p Piece, ml *MoveList) {
		for _, o := range offsets {
			to := from.Offset(o[0], o[1])
			if !to.IsValid() {
				continue
			}
			target := b.grid[to.Row][to.Col]
			if target.IsEmpty() || target.Color() != p.Color() {
				ml.Add(NewMove(from, to))
			}
		}
	}
}

// pawnMoves generates pushes and diagonal captures onto enemy pieces.
// En passant is added separately by addSpecialMoves.
func pawnMoves(b *Board, from Square, p Piece, ml *MoveList) {
	us := p.Color()
	fwd := us.Forward()

	one := from.Offset(fwd, 0)
	if b.IsEmpty(one) {
		ml.Add(NewMove(from, one))
		two := one.Offset(fwd, 0)
		if from.Row == us.PawnRow() && b.IsEmpty(two) {
			ml.Add(NewMove(from, two))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(fwd, dc)
		if !to.IsValid() {
			continue
		}
		target := b.grid[to.Row][to.Col]
		if !target.IsEmpty() && target.Color() != us {
			ml.Add(NewMove(from, to))
		}
	}
}

// PseudoLegalMoves returns the moves of the piece on sq that follow its
// movement pattern, ignoring king safety and special moves.
func (b *Board) PseudoLegalMoves(sq Square) *MoveList {
	ml := NewMoveList()
	p := b.PieceAt(sq)
	if p.IsEmpty() {
		return ml
	}
	moveRules[p.Type()](b, sq, p, ml)
	return ml
}

// addSpecialMoves appends en passant and castling moves for the piece on from.
func (b *Board) addSpecialMoves(from Square, p Piece, ml *MoveList) {
	switch p.Type() {
	case Pawn:
		b.addEnPassant(from, p, ml)
	case King:
		b.addCastling(from, p, ml)
	}
}

func (b *Board) addEnPassant(from Square, p Piece, ml *MoveList) {
	ep := b.enPassant
	if !ep.IsValid() || ep.Row != from.Row+p.Color().Forward() || abs(ep.Col-from.Col) != 1 {
		return
	}
	victim := b.PieceAt(Square{Row: from.Row, Col: ep.Col})
	if victim.Type() != Pawn || victim.Color() == p.Color() {
		return
	}
	ml.Add(NewEnPassant(from, ep))
}

func (b *Board) addCastling(from Square, p Piece, ml *MoveList) {
	us := p.Color()
	row := us.HomeRow()
	if from != (Square{Row: row, Col: kingStartCol}) {
		return
	}
	them := us.Other()

	if b.castling.CanCastle(us, true) &&
		b.PieceAt(Square{Row: row, Col: kingSideRookCol}) == NewPiece(Rook, us) &&
		b.emptyBetween(row, kingStartCol+1, kingSideRookCol-1) &&
		!b.anyAttacked(row, kingStartCol, kingSideKingCol, them) {
		ml.Add(NewCastling(from, Square{Row: row, Col: kingSideKingCol}))
	}

	if b.castling.CanCastle(us, false) &&
		b.PieceAt(Square{Row: row, Col: queenSideRookCol}) == NewPiece(Rook, us) &&
		b.emptyBetween(row, queenSideRookCol+1, kingStartCol-1) &&
		!b.anyAttacked(row, queenSideKingCol, kingStartCol, them) {
		ml.Add(NewCastling(from, Square{Row: row, Col: queenSideKingCol}))
	}
}

// emptyBetween reports whether columns lo..hi of row are all empty.
func (b *Board) emptyBetween(row, lo, hi int) bool {
	for c := lo; c <= hi; c++ {
		if !b.grid[row][c].IsEmpty() {
			return false
		}
	}
	return true
}

// anyAttacked reports whether any of columns lo..hi of row is attacked by c.
func (b *Board) anyAttacked(row, lo, hi int, by Color) bool {
	for c := lo; c <= hi; c++ {
		if b.IsSquareAttacked(Square{Row: row, Col: c}, by) {
			return true
		}
	}
	return false
}

// IsSquareAttacked reports whether any piece of color by has sq in its
// pseudo-legal move set. Pawn pushes count as attacks on empty squares.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	ml := NewMoveList()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() || p.Color() != by {
				continue
			}
			ml.Clear()
			moveRules[p.Type()](b, Square{Row: row, Col: col}, p, ml)
			for _, m := range ml.moves {
				if m.To == sq {
					return true
				}
			}
		}
	}
	return false
}

// InCheck reports whether the given color's king is attacked.
func (b *Board) InCheck(c Color) bool {
	return b.IsSquareAttacked(b.kings[c], c.Other())
}

// LegalMoves returns the legal moves of the piece on sq. The list is empty
// for an empty square or a piece whose side is not to move.
func (b *Board) LegalMoves(sq Square) *MoveList {
	legal := NewMoveList()
	p := b.PieceAt(sq)
	if p.IsEmpty() || p.Color() != b.sideToMove {
		return legal
	}
	b.appendLegalMoves(sq, p, legal)
	return legal
}

func (b *Board) appendLegalMoves(sq Square, p Piece, legal *MoveList) {
	candidates := NewMoveList()
	moveRules[p.Type()](b, sq, p, candidates)
	b.addSpecialMoves(sq, p, candidates)

	us := p.Color()
	for _, m := range candidates.moves {
		scratch := *b
		scratch.makeMove(m)
		if !scratch.InCheck(us) {
			legal.Add(m)
		}
	}
}

// GenerateLegalMoves returns every legal move of the side to move, scanning
// the grid in row-major order.
func (b *Board) GenerateLegalMoves() *MoveList {
	legal := NewMoveList()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() || p.Color() != b.sideToMove {
				continue
			}
			b.appendLegalMoves(Square{Row: row, Col: col}, p, legal)
		}
	}
	return legal
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (b *Board) HasLegalMoves() bool {
	ml := NewMoveList()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() || p.Color() != b.sideToMove {
				continue
			}
			b.appendLegalMoves(Square{Row: row, Col: col}, p, ml)
			if ml.Len() > 0 {
				return true
			}
		}
	}
	return false
}

// MakeMove applies a move produced by the generator without re-validating it.
// Callers that accept outside input should use ApplyMove.
func (b *Board) MakeMove(m Move) {
	b.makeMove(m)
}
