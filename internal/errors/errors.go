package errors

import (
	"errors"
	"fmt"
)

// RankerError is the structured error type for the ranker.
// It provides rich context for error handling, logging, and user presentation.
type RankerError struct {
	// Code is the unique error code (e.g., "ERR_402_INVALID_STATE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *RankerError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RankerError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with RankerError.
func (e *RankerError) Is(target error) bool {
	if t, ok := target.(*RankerError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new RankerError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *RankerError {
	return &RankerError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a RankerError from an existing error.
// Returns nil if err is nil.
func Wrap(code string, err error) *RankerError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InvalidState creates an invalid-state error. This is the only error kind
// the core session raises: ingestion or finalization on a ranked session.
func InvalidState(message string) *RankerError {
	return New(ErrCodeInvalidState, message, nil)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *RankerError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// UpstreamError creates an error for a failed remote search request.
func UpstreamError(message string, cause error) *RankerError {
	return New(ErrCodeUpstreamSearch, message, cause)
}

// IsInvalidState reports whether err is (or wraps) an invalid-state error.
func IsInvalidState(err error) bool {
	var re *RankerError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidState
	}
	return false
}

// CodeOf returns the code of err if it is a RankerError, or ErrCodeInternal.
func CodeOf(err error) string {
	var re *RankerError
	if errors.As(err, &re) {
		return re.Code
	}
	return ErrCodeInternal
}
