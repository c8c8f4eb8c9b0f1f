package game

import "errors"

var (
	ErrSearchInProgress = errors.New("search in progress")
	ErrNothingToUndo    = errors.New("nothing to undo")
)
