// Package apperr defines the error taxonomy shared by the service, backends and front ends.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the target record does not exist.
	// Lookups report absence as a nil result; this error is for callers that need one.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrPersistence indicates the backing store could not be read or written.
	ErrPersistence = errors.New("persistence error")

	// ErrUnauthenticated indicates missing, invalid or expired credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports input that fails a domain rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation returns a ValidationError for field.
func Validation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Persistence wraps err as a persistence failure with context.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
