package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyRounds is returned when a dialog stays open past the round
	// limit configured with WithMaxRounds.
	ErrTooManyRounds = errors.New("tui: dialog did not close")
	// ErrInvalidChoice is returned when the driver answers a select prompt
	// with an index outside its options.
	ErrInvalidChoice = errors.New("tui: invalid choice")
)
