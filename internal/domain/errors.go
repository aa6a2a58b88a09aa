// Package domain holds the credential, principal, and authorization types
// shared by the services, the repositories, and the HTTP layer.
package domain

import "fmt"

// NotFoundError: the referenced record does not exist, or is soft-deleted
// and treated as absent.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrNotFound builds a NotFoundError from a format string.
func ErrNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// AccessDeniedError: the caller is not allowed to perform the operation.
// Credential-level denials use AuthError instead.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ErrAccessDenied builds an AccessDeniedError from a format string.
func ErrAccessDenied(format string, args ...any) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError: the request itself is malformed or incomplete.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrValidation builds a ValidationError from a format string.
func ErrValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError: the record clashes with one that already exists, such as a
// duplicate user name.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ErrConflict builds a ConflictError from a format string.
func ErrConflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
