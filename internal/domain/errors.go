package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the services wraps one of these,
// so transports map them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("access denied")
	ErrNotAvailable = errors.New("item not available")
)

var (
	ErrDuplicateEmail = fmt.Errorf("%w: email already in use", ErrValidation)
	ErrUnknownState   = fmt.Errorf("%w: unknown state", ErrValidation)
	ErrAlreadyDecided = fmt.Errorf("%w: booking already decided", ErrValidation)
)

// NotFoundf wraps ErrNotFound with a formatted detail.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Invalidf wraps ErrValidation with a formatted detail.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Forbiddenf wraps ErrForbidden with a formatted detail.
func Forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
