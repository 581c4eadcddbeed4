package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidDateRange is returned when a compile range is unparseable or
// the from date lies after the to date. It fails the whole call before any
// expansion work begins.
var ErrInvalidDateRange = errors.New("invalid schedule date range")

// MalformedEntryError reports an input entry that violates a structural
// invariant. The engine fails fast instead of silently defaulting; a
// defaulted entry would otherwise apply everywhere.
type MalformedEntryError struct {
	ID     string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed schedule entry %q: %s", e.ID, e.Reason)
}
