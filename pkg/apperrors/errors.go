// Package apperrors defines the code-based error taxonomy shared by the auth,
// storage and HTTP layers.
//
// An *Error carries a machine-readable Code, a client-safe Message and an
// optional Cause. Only Message ever reaches a response body; Cause is for logs.
package apperrors

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeInternal represents an unanticipated failure.
	CodeInternal Code = "INTERNAL"
	// CodeConfig represents a missing or invalid process configuration (signing secret).
	CodeConfig Code = "CONFIG"

	// Authentication errors
	CodeMissingCredentials Code = "MISSING_CREDENTIALS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"

	// Resource errors
	CodeNotFound Code = "NOT_FOUND"
	CodeConflict Code = "CONFLICT"

	// Input errors
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeUnprocessable   Code = "UNPROCESSABLE"
	CodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
)

// HTTPStatus maps a code to the status the API responds with.
//
// CodeForbidden maps to 401, not 403: a path/identity mismatch is reported the
// same way as a failed authentication.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeMissingCredentials, CodeUnauthorized, CodeForbidden:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error type.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Client-facing message
	Cause   error  // Wrapped underlying error, never exposed to clients
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// Convenience constructors for the codes handlers use most.

func Unauthorized(message string) *Error  { return New(CodeUnauthorized, message) }
func NotFound(message string) *Error      { return New(CodeNotFound, message) }
func Conflict(message string) *Error      { return New(CodeConflict, message) }
func InvalidInput(message string) *Error  { return New(CodeInvalidInput, message) }
func Unprocessable(message string) *Error { return New(CodeUnprocessable, message) }

// Internal wraps an unexpected failure with the generic client message.
func Internal(cause error) *Error {
	return Wrap(CodeInternal, "Internal server error", cause)
}
