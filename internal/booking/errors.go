package booking

import (
	"errors"
	"fmt"
)

// ErrBookingNotFound is returned by a Store when no booking has the given id.
var ErrBookingNotFound = errors.New("booking not found")

// ValidationError rejects input before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrBookingNotFound
}

// PersistenceError wraps a store failure. Nothing was written.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
