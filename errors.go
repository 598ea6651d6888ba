package pofile

import (
	"fmt"
)

// FormatError reports a line of catalog text that strict parsing could not
// make sense of.
type FormatError struct {
	// Line is 1-based.
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
