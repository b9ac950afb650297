// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Core error taxonomy. Callers classify failures with errors.Is; no layer
// retries automatically.
var (
	// ErrStorageUnavailable indicates the backing store is inaccessible or
	// blocked. Callers must not assume a write succeeded.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotFound indicates an update or delete referenced a missing record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName indicates a category name collision.
	ErrDuplicateName = errors.New("duplicate category name")
	// ErrValidation indicates user input that fails validation and should
	// block the action with an explanatory message.
	ErrValidation = errors.New("validation failed")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
