package store

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a key with no entry in memory or durable storage.
// Callers match it with errors.Is; it is an absence, not a failure.
var ErrNotFound = errors.New("store: entry not found")

// NotFoundError carries a caller-facing absence message (for example
// "no orders for user bob") while still matching ErrNotFound.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError reports a failed durable read or write, identifying the
// operation and the key it was touching.
type IOError struct {
	Op  string
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
