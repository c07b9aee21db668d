package mines

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is returned when an action does not apply to the
	// current state of a tile or of the game. The state is left untouched.
	ErrInvalidOperation = errors.New("invalid operation")

	ErrOutOfBounds = fmt.Errorf("%w: position out of bounds", ErrInvalidOperation)
	ErrGameOver    = fmt.Errorf("%w: game is over", ErrInvalidOperation)
	ErrBadLayout   = errors.New("bad mine layout")
	ErrBadParams   = errors.New("bad field parameters")
)

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
