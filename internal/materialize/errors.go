package materialize

import (
	"fmt"
)

// RetryExhaustedError is returned when a file could not be fetched within the allowed attempts
type RetryExhaustedError struct {
	Path     string
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("cannot fetch %s after %d attempts: %v", e.Path, e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Last
}

var ErrPathEscape = fmt.Errorf("path escapes installation folder")
