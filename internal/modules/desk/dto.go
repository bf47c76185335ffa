package desk

import "walkindesk/internal/modules/widget"

type SelectAirportRequest struct {
	AirportID string `json:"airport_id" binding:"required"`
}

type SelectDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type ToggleRoomRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type BookingActionRequest struct {
	Action          string `json:"action" binding:"required"`
	AdditionalHours int    `json:"additional_hours"`
}

type SetDurationRequest struct {
	Duration string `json:"duration"`
}

type SetStartTimeRequest struct {
	StartTime string `json:"start_time"`
}

type ChangePhoneRequest struct {
	Phone string `json:"phone"`
}

type SetCustomerFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// SessionResponse is the body of every session endpoint.
type SessionResponse struct {
	SessionID     string                `json:"session_id"`
	LiveUpdates   bool                  `json:"live_updates"`
	View          widget.View           `json:"view"`
	Notifications []widget.Notification `json:"notifications"`
	Documents     []DocumentLink        `json:"documents"`
}
