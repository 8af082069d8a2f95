package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a standardized application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"` // Collaborator message for upstream failures
	Err     error  `json:"-"`                 // Internal error for logging
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped internal error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest creates a 400 error
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Unauthorized creates a 401 error
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

// Forbidden creates a 403 error
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

// NotFound creates a 404 error
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// Config creates a 500 error for a missing required setting. This is a
// deployment problem, not a caller problem.
func Config(setting string) *AppError {
	return New(http.StatusInternalServerError, "Missing "+setting, nil)
}

// Upstream creates a 500 error carrying the collaborator's message in Details.
func Upstream(message string, err error) *AppError {
	e := New(http.StatusInternalServerError, message, err)
	if err != nil {
		e.Details = err.Error()
	}
	return e
}
