package game

import "errors"

var (
	// ErrInvalidConfiguration is returned when a board is too small to hold
	// the starting snake.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrBoardFull is returned when a candy has nowhere to go.
	ErrBoardFull = errors.New("board full")

	// ErrLoopStopped is returned by Loop requests after Run has returned.
	ErrLoopStopped = errors.New("game loop stopped")
)
