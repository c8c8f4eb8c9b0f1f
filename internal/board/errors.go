package board

import "errors"

// Errors returned by board operations. Every failure leaves the board unchanged.
var (
	ErrInvalidPosition   = errors.New("invalid position")
	ErrNoPieceSelected   = errors.New("no piece selected")
	ErrWrongTurn         = errors.New("wrong turn")
	ErrInvalidMove       = errors.New("invalid move")
	ErrPromotionRequired = errors.New("promotion required")
	ErrGameOver          = errors.New("game over")
)
