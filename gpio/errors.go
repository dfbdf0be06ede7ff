package gpio

import (
	"errors"
	"fmt"
)

// Validation errors. These are always raised before any sysfs side effect
// is attempted, so observing one means nothing was written.
var (
	// ErrNotInitialized is returned when a pin operation runs before
	// Init or after Shutdown.
	ErrNotInitialized = errors.New("gpio device not initialized")

	// ErrEmptyQuery is returned by FindPin for an empty query string.
	ErrEmptyQuery = errors.New("empty pin query")

	// ErrUnknownPin is returned when no catalog entry matches.
	ErrUnknownPin = errors.New("unknown pin")

	// ErrNotGPIO is returned when a direction or level operation targets
	// a power, ground or reserved position.
	ErrNotGPIO = errors.New("pin is not a gpio line")

	// ErrInvalidDirection is returned for direction values other than
	// In and Out.
	ErrInvalidDirection = errors.New("invalid direction")
)

// IOError reports a failed sysfs interaction and preserves the underlying
// cause. The in-memory mirror is left untouched when one is returned.
type IOError struct {
	Op   string // "export", "unexport", "direction", "value"
	Pin  string
	Line int
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("gpio %s failed for %s (line %d): %s", e.Op, e.Pin, e.Line, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioErr(op string, id PinID, line int, err error) *IOError {
	return &IOError{Op: op, Pin: id.Name(), Line: line, Err: err}
}
