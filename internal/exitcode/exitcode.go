// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"todo/internal/apperr"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found, ambiguous).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a storage, API or network error.
	BackendError = 3
)

// FromError maps an error to an exit code. A nil error is Success.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case apperr.IsValidation(err), errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrConflict):
		return UserError
	case errors.Is(err, apperr.ErrUnauthenticated):
		return AuthError
	default:
		return BackendError
	}
}
