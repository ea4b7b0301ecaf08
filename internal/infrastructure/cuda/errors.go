package cuda

import (
	"errors"
	"fmt"
)

var (
	ErrLibraryNotFound = errors.New("cuda: driver library not found")
	ErrNoContext       = errors.New("cuda: no device selected")
	ErrClosed          = errors.New("cuda: driver closed")
)

// Error is a failed driver call.
type Error struct {
	Op   string
	Code int32
	Name string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("cuda: %s failed with code %d", e.Op, e.Code)
	}
	return fmt.Sprintf("cuda: %s failed: %s (%d)", e.Op, e.Name, e.Code)
}

// Is matches another *Error with the same code, so callers can compare
// against a template such as &Error{Code: 2}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
