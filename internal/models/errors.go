package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPassword is the kind of every password policy rejection.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidUser reports a user record that cannot be stored (bad id, role or zoom).
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidCategory reports an empty category name.
	ErrInvalidCategory = errors.New("invalid category")
)

// UserError carries a human-readable reason for a rejected user mutation.
// It matches its Kind with errors.Is.
type UserError struct {
	Kind   error
	Reason string
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *UserError) Unwrap() error { return e.Kind }

func passwordError(reason string) error {
	return &UserError{Kind: ErrInvalidPassword, Reason: reason}
}

func userError(reason string) error {
	return &UserError{Kind: ErrInvalidUser, Reason: reason}
}
