package sandbox

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrAirportNotFound   = errors.New("airport not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrRoomUnavailable   = errors.New("room is not available for booking")
	ErrRoomBooked        = errors.New("room is already booked for the selected time")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrRequestInProgress = errors.New("a booking with this idempotency key is still being processed")
)

// ValidationError carries a readable message and the offending fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Cannot change booking status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
