package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorUnit     = 3   // Indicates a task unit failed.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// a retry threshold that leaves no acceptable draw. It indicates that the
// application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// UnitError reports the failure of a single task unit while preserving the
// original cause. The coordinator surfaces the first UnitError of a run so the
// caller knows which unit failed and why.
type UnitError struct {
	// Unit is the launch index of the failed unit.
	Unit int
	// Cause is the underlying error that made the unit fail.
	Cause error
}

// Error returns a message naming the unit and its cause.
func (e UnitError) Error() string {
	return fmt.Sprintf("unit %d failed: %v", e.Unit, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e UnitError) Unwrap() error { return e.Cause }

// TimeoutError reports a run that exceeded its --timeout. Cause keeps the
// failure the deadline produced, usually a UnitError wrapping
// context.DeadlineExceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
	// Cause is the underlying failure, if any.
	Cause error
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("operation %q timed out after %s: %v", e.Operation, e.Limit, e.Cause)
	}
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap returns the cause so the failed unit stays reachable.
func (e TimeoutError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FailedUnit returns the index of the unit carried by err, if any.
func FailedUnit(err error) (int, bool) {
	var unitErr UnitError
	if errors.As(err, &unitErr) {
		return unitErr.Unit, true
	}
	return 0, false
}
