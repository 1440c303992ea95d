package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDoubleRevert indicates that a ledger entry was already reverted once.
var ErrDoubleRevert = errors.New("ledger entry already reverted")

// ErrConflict indicates a stale write: the entity changed since it was read.
var ErrConflict = errors.New("resource was modified concurrently")

// ErrInternal indicates an unexpected failure in a collaborator.
var ErrInternal = errors.New("internal error")

// AppError carries a status-like code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap lets errors.Is see through to the cause, so a not-found or conflict
// raised inside a transaction keeps its identity.
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err is caused by the request rather than by
// a failing collaborator.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDoubleRevert) ||
		errors.Is(err, ErrConflict)
}
