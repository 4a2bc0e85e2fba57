package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAttemptNotFound means the referenced attempt does not exist.
	ErrAttemptNotFound = errors.New("test attempt not found")
	// ErrAttemptCompleted means a mutation hit an attempt already in its
	// terminal state.
	ErrAttemptCompleted = errors.New("cannot modify completed test attempt")
)

// ValidationError reports malformed input caught before any state change.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
