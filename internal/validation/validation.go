package validation

import (
	"fmt"
	"strings"
)

// Error collects every violated constraint of one payload so the caller
// can surface a single report instead of the first failure.
type Error struct {
	Reasons []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Reasons, "; "))
}

func newError(reasons ...string) *Error {
	return &Error{Reasons: reasons}
}
