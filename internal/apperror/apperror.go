// Package apperror defines the domain error taxonomy shared by the service
// and handler layers.
//
// Services return these tagged errors; the HTTP layer maps them to status
// codes with errors.Is/errors.As. Nothing below the handler layer knows about
// HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks across the codebase.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AppError is a domain error with a human-readable message.
//
// Fields is populated only for field-format validation failures, mapping
// field name → message for every violated rule (violations are collected,
// not short-circuited). Business-rule failures (conflicts, reserved values,
// missing records) carry a single Message and no Fields map.
type AppError struct {
	Err     error             // taxonomy sentinel, matched with errors.Is
	Message string            // human-readable description
	Fields  map[string]string // field → message, for aggregated validation errors
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing record, e.g. lookup by an unknown id.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// ValidationFailed reports aggregated field-format violations.
func ValidationFailed(fields map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// Conflict reports a uniqueness or reserved-value violation.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCredentials reports a failed login. The message is deliberately
// generic: the response must not reveal whether the username existed.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid username or password",
	}
}
