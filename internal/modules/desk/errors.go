package desk

import (
	"context"
	"errors"
	"net/http"

	"walkindesk/internal/modules/widget"
)

var ErrSessionNotFound = errors.New("session not found")

// classify maps a widget failure to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, widget.ErrValidation),
		errors.Is(err, widget.ErrUnknownField),
		errors.Is(err, widget.ErrUnknownAction):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, widget.ErrRoomNotFound),
		errors.Is(err, widget.ErrBookingNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, widget.ErrRoomMaintenance):
		return http.StatusConflict, "ROOM_UNAVAILABLE"
	case errors.Is(err, widget.ErrNoBookingForm),
		errors.Is(err, widget.ErrNoBookingsModal):
		return http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, widget.ErrActionNotPermitted):
		return http.StatusConflict, "ACTION_NOT_PERMITTED"
	case errors.Is(err, widget.ErrBusy):
		return http.StatusConflict, "REQUEST_IN_PROGRESS"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "CONTROLLER_TIMEOUT"
	default:
		return http.StatusBadGateway, "CONTROLLER_ERROR"
	}
}
