package errors

import (
	"errors"
	"net/http"
)

// AppError is the application error carried through gin's error list.
// Status drives the HTTP response, Message is shown to the user,
// Internal is the underlying cause (logged, never rendered).
type AppError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Internal
}

func New(status int, message string, internal error) *AppError {
	return &AppError{Status: status, Message: message, Internal: internal}
}

func BadRequest(message string, internal error) *AppError {
	return New(http.StatusBadRequest, message, internal)
}

func Unauthorized(message string, internal error) *AppError {
	return New(http.StatusUnauthorized, message, internal)
}

func Forbidden(message string, internal error) *AppError {
	return New(http.StatusForbidden, message, internal)
}

func NotFound(message string, internal error) *AppError {
	return New(http.StatusNotFound, message, internal)
}

func Unprocessable(message string, internal error) *AppError {
	return New(http.StatusUnprocessableEntity, message, internal)
}

func Internal(internal error) *AppError {
	return New(http.StatusInternalServerError, "Internal server error", internal)
}

// NewValidationError wraps a gin binding failure
func NewValidationError(internal error) *AppError {
	return BadRequest("Invalid input", internal)
}

// As unwraps err into an *AppError if possible
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
