package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRouteName is returned when registering a named route whose
	// name is already taken. This is checked eagerly at registration time.
	ErrDuplicateRouteName = errors.New("route name already registered")

	// ErrUnknownRoute is returned when generating a path for a name that is
	// not present in the registry.
	ErrUnknownRoute = errors.New("unknown route name")
)

// PatternError reports a malformed user-supplied raw regex pattern ("@...").
// Raw patterns are not pre-validated, so the error surfaces at match time;
// the caller should treat the affected route as unusable.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("malformed route pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
