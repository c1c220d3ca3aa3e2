package errors

import (
	"errors"
	"fmt"
)

// Custom error types for better error handling
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many failed attempts")
	ErrUnauthorized       = errors.New("unauthorized access")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidUsername = errors.New("invalid username format")
	ErrInvalidPIN      = errors.New("invalid PIN format")
	ErrInvalidSlug     = errors.New("invalid slug format")

	// Conflict errors
	ErrAlreadyExists = errors.New("already exists")

	// Lookup errors
	ErrNotFound = errors.New("not found")

	// Database errors
	ErrDatabaseConnection = errors.New("database connection failed")
)

// AppError wraps errors with additional context
type AppError struct {
	Err     error
	Message string
	Code    int
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(err error, message string, code int) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}
