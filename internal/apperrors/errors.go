// Package apperrors defines the error taxonomy returned by services and
// rendered by handlers as {message, code}.
package apperrors

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeInvalidToken     Code = "INVALID_TOKEN"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	CodeInternal         Code = "INTERNAL"
)

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeCapacityExceeded:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidToken:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error is a coded error. Message is safe to show to clients; Cause is kept
// for logs only.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and client-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that keeps the underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation       = New(CodeValidation, "validation error")
	ErrUnauthorized     = New(CodeUnauthorized, "Unauthorized")
	ErrInvalidToken     = New(CodeInvalidToken, "Invalid token")
	ErrForbidden        = New(CodeForbidden, "forbidden")
	ErrNotFound         = New(CodeNotFound, "not found")
	ErrCapacityExceeded = New(CodeCapacityExceeded, "Event is full")
)

// Validation is shorthand for a VALIDATION_ERROR with the given message.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// NotFound is shorthand for a NOT_FOUND with the given message.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Forbidden is shorthand for a FORBIDDEN with the given message.
func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// Internal wraps an unexpected failure. The cause never reaches clients.
func Internal(cause error) *Error {
	return Wrap(CodeInternal, "Internal server error", cause)
}

// From extracts an *Error from err, treating anything uncoded as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
