package errors

import "errors"

// Exit codes returned by the djangogen binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates invalid options, settings, or destination.
	ExitValidationError = 2

	// ExitConnectivityError indicates a remote download failed.
	ExitConnectivityError = 3

	// ExitPermissionDenied indicates insufficient filesystem permissions.
	ExitPermissionDenied = 4

	// ExitNotFound indicates a template or file was not found.
	ExitNotFound = 5

	// ExitCommandFailed indicates an external tool failed.
	ExitCommandFailed = 7

	// ExitPatchNotApplied indicates a generated file had an unexpected shape.
	ExitPatchNotApplied = 8
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed reports whether the command layer already printed the error.
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

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidDestination):
		return ExitValidationError
	case errors.Is(err, ErrConnectivity), errors.Is(err, ErrDownloadFailed):
		return ExitConnectivityError
	case errors.Is(err, ErrPermission):
		return ExitPermissionDenied
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTemplateNotFound):
		return ExitNotFound
	case errors.Is(err, ErrCommandFailed):
		return ExitCommandFailed
	case errors.Is(err, ErrPatchNotApplied):
		return ExitPatchNotApplied
	default:
		return ExitGeneralError
	}
}
