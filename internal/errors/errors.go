// Package errors provides sentinel errors and structured error types for djangogen.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a settings or option validation failure.
	ErrValidation = errors.New("validation error")

	// ErrConnectivity indicates a network connectivity issue.
	ErrConnectivity = errors.New("connectivity error")

	// ErrPermission indicates insufficient permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a file or setting was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDestination indicates the destination path cannot be used.
	ErrInvalidDestination = errors.New("invalid destination")

	// ErrTemplateNotFound indicates a template name does not resolve under the template root.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrDownloadFailed indicates a remote file could not be fetched.
	ErrDownloadFailed = errors.New("download failed")

	// ErrCommandFailed indicates an external tool exited non-zero or could not start.
	ErrCommandFailed = errors.New("command failed")

	// ErrPatchNotApplied indicates a text patch matched nothing in a file that needed it.
	ErrPatchNotApplied = errors.New("patch not applied")
)

// DetailError captures structured error information for user-facing output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path or URL involved (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewInvalidDestinationError reports a destination that cannot hold the project.
func NewInvalidDestinationError(path string, cause error) error {
	msg := "destination cannot be used"
	if cause != nil {
		msg = cause.Error()
	}
	return &DetailError{
		Type:     "invalid destination",
		Message:  msg,
		Location: path,
		Hint:     "Choose a writable directory path whose last segment is a usable name.",
		Cause:    joinCause(ErrInvalidDestination, cause),
	}
}

// NewTemplateNotFoundError reports a template name missing from the template root.
func NewTemplateNotFoundError(name, root string) error {
	return &DetailError{
		Type:     "template not found",
		Message:  fmt.Sprintf("no template named %q", name),
		Location: root,
		Hint:     "Check templates.dir in your settings file, or unset it to use the built-in templates.",
		Cause:    ErrTemplateNotFound,
	}
}

// NewDownloadError reports a failed remote fetch.
func NewDownloadError(url string, status int, cause error) error {
	ctx := map[string]string{}
	if status != 0 {
		ctx["Status"] = fmt.Sprintf("%d", status)
	}
	msg := "remote server returned a non-success status"
	if cause != nil {
		msg = cause.Error()
	}
	return &DetailError{
		Type:     "download failed",
		Message:  msg,
		Location: url,
		Context:  ctx,
		Hint:     "Check network access and the remote.* URLs in your settings file, then re-run.",
		Cause:    joinCause(ErrDownloadFailed, cause),
	}
}

// NewPatchNotAppliedError reports a patch rule that found nothing to change.
func NewPatchNotAppliedError(path, rule string) error {
	return &DetailError{
		Type:     "patch not applied",
		Message:  fmt.Sprintf("rule %q matched nothing", rule),
		Location: path,
		Hint:     "The generated file no longer has the expected shape; the tool that produced it may have changed.",
		Cause:    ErrPatchNotApplied,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// CommandError describes an external command that did not succeed.
type CommandError struct {
	// Argv is the command and its arguments.
	Argv []string

	// Dir is the working directory.
	Dir string

	// ExitCode is the process exit code, or -1 when the process never started.
	ExitCode int

	// Output is the captured combined stdout and stderr.
	Output string

	// Cause is the start failure, if any.
	Cause error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: could not run %q in %s: %v", ErrCommandFailed, cmd, e.Dir, e.Cause)
	}
	return fmt.Sprintf("%s: %q exited with code %d in %s", ErrCommandFailed, cmd, e.ExitCode, e.Dir)
}

// Unwrap lets errors.Is match ErrCommandFailed and the start failure.
func (e *CommandError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrCommandFailed, e.Cause}
	}
	return []error{ErrCommandFailed}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

func joinCause(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Join(sentinel, cause)
}
