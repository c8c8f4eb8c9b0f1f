package board

// StatusKind classifies the state of a game after a half-move.
type StatusKind uint8

const (
	InProgress StatusKind = iota
	Check
	Checkmate
	Stalemate
)

// String returns the status kind name.
func (k StatusKind) String() string {
	switch k {
	case InProgress:
		return "InProgress"
	case Check:
		return "Check"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	default:
		return "Unknown"
	}
}

// GameStatus is the outcome of status evaluation.
// Color is the checked side for Check, the winner for Checkmate and
// NoColor otherwise.
type GameStatus struct {
	Kind  StatusKind
	Color Color
}

// IsTerminal reports whether no further moves may be played.
func (s GameStatus) IsTerminal() bool {
	return s.Kind == Checkmate || s.Kind == Stalemate
}

// String returns a human-readable status.
func (s GameStatus) String() string {
	switch s.Kind {
	case Check:
		return s.Color.String() + " in check"
	case Checkmate:
		return "Checkmate, " + s.Color.String() + " wins"
	case Stalemate:
		return "Stalemate"
	default:
		return "In progress"
	}
}

// Status computes the game status for the side to move. It is derived
// from scratch on every call.
func (b *Board) Status() GameStatus {
	us := b.sideToMove
	inCheck := b.InCheck(us)
	hasMoves := b.HasLegalMoves()

	switch {
	case !hasMoves && inCheck:
		return GameStatus{Kind: Checkmate, Color: us.Other()}
	case !hasMoves:
		return GameStatus{Kind: Stalemate, Color: NoColor}
	case inCheck:
		return GameStatus{Kind: Check, Color: us}
	default:
		return GameStatus{Kind: InProgress, Color: NoColor}
	}
}

// IsCheckmate returns true if the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.Status().Kind == Checkmate
}

// IsStalemate returns true if the side to move has no legal moves and is not in check.
func (b *Board) IsStalemate() bool {
	return b.Status().Kind == Stalemate
}
