package contentgen

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned, wrapped, for arguments that are rejected
// before any provider is called.
var ErrInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ExhaustedError reports a generator that ran out of attempts without a
// usable result and has no static fallback.
type ExhaustedError struct {
	Kind     Kind
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: gave up after %d attempts: %v", e.Kind, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }
