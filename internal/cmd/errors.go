package cmd

import (
	"errors"

	"github.com/beamtools/arx/internal/collect"
	"github.com/beamtools/arx/internal/config"
)

// ExitError wraps an error with an exit code. Printed marks errors the
// command layer has already reported, so main does not repeat them.
type ExitError struct {
	Err     error
	Code    int
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var validationErr *config.ValidationError
	if errors.As(err, &validationErr) {
		return ExitConfigError
	}

	var missingErr *collect.MissingAppError
	if errors.As(err, &missingErr) {
		return ExitNotFound
	}

	return ExitGeneralError
}
