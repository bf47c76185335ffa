package widget

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomMaintenance    = errors.New("room under maintenance")
	ErrNoBookingForm      = errors.New("booking form is not open")
	ErrNoBookingsModal    = errors.New("bookings list is not open")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrActionNotPermitted = errors.New("action not permitted for booking status")
	ErrUnknownAction      = errors.New("unknown booking action")
	ErrUnknownField       = errors.New("unknown customer field")
	ErrBusy               = errors.New("request already in progress")
)
