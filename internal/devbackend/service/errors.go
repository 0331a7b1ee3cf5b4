package service

import (
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrNoSlots   = errors.New("no slots remaining")
)

// ValidationError is a request the backend refuses as invalid. Message is
// shown to the user by the client as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
