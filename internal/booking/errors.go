package booking

import (
	"errors"
	"fmt"
)

var (
	ErrSlotTaken = errors.New("slot unavailable")
	// ErrNotFound deliberately covers unknown ids, unknown cancel tokens
	// and already-cancelled bookings alike, so an unauthenticated caller
	// learns nothing from the distinction.
	ErrNotFound = errors.New("booking not found")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

func missing(field string) error {
	return &ValidationError{Field: field}
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
