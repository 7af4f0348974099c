package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified error type shared by savvy components.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// EmptyArgument creates the error for a command containing an empty element.
func EmptyArgument(cmd []string) *AppError {
	return New(ErrCodeInvalidCommand,
		fmt.Sprintf("Empty item found in command \"%s\".", strings.Join(cmd, " "))).
		WithDetail("command", cmd)
}

// Subcommand creates the error for a command element carrying an embedded
// $(...) subcommand.
func Subcommand(arg string, cmd []string) *AppError {
	return New(ErrCodeInvalidCommand,
		fmt.Sprintf("Invalid command -- attempted subcommand \"%s\" within full command \"%s\".", arg, strings.Join(cmd, " "))).
		WithDetail("argument", arg).
		WithDetail("command", cmd)
}

// SpawnFailed creates the error for a process the OS could not start.
func SpawnFailed(cmd []string, cause error) *AppError {
	return New(ErrCodeSpawnFailed,
		fmt.Sprintf("OS Error occurred during command call \"%s\": %v.", strings.Join(cmd, " "), cause)).
		WithDetail("command", cmd).
		WithCause(cause)
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
