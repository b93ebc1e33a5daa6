package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for programmatic handling at the HTTP boundary.
type Code string

const (
	// CodeValidation indicates malformed or semantically invalid input.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeNotFound indicates a referenced entity or relation row does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict indicates a uniqueness violation on a relation add.
	CodeConflict Code = "CONFLICT"
	// CodePermissionDenied indicates the viewer may not mutate the entity.
	CodePermissionDenied Code = "PERMISSION_DENIED"
)

// Error carries a classification code, a human-readable message and an
// optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error with an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation creates a CodeValidation error.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// NotFound creates a CodeNotFound error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Conflict creates a CodeConflict error.
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// PermissionDenied creates a CodePermissionDenied error.
func PermissionDenied(message string) *Error {
	return New(CodePermissionDenied, message)
}

// CodeOf extracts the classification code from err, unwrapping as needed.
// The second return is false when err carries no code.
func CodeOf(err error) (Code, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
