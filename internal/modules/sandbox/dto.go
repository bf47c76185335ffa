package sandbox

import (
	"time"

	"walkindesk/internal/domain"
)

const (
	EventBookingCreated       = "walkin.booking.created"
	EventBookingStatusChanged = "walkin.booking.status_changed"
	EventBookingExtended      = "walkin.booking.extended"
	EventRoomStatusChanged    = "walkin.room.status_changed"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateStatusResponse struct {
	BookingID  string `json:"booking_id"`
	Status     string `json:"status"`
	DocumentID string `json:"document_id,omitempty"`
}

type ExtendRequest struct {
	AdditionalHours int `json:"additional_hours" binding:"required"`
}

type ExtendResponse struct {
	BookingID string    `json:"booking_id"`
	EndTime   time.Time `json:"end_time"`
}

type RoomStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type RoomStatusResponse struct {
	RoomID   string `json:"room_id"`
	IsActive bool   `json:"is_active"`
}

type CustomerPicklists struct {
	Nationality []domain.PicklistOption `json:"nationality"`
	IDType      []domain.PicklistOption `json:"id_type"`
}

type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	AirportID  string    `json:"airport_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Status     string    `json:"status"`
	PrevStatus string    `json:"previous_status,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	DocumentID string    `json:"document_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type RoomEvent struct {
	RoomID     string    `json:"room_id"`
	IsActive   bool      `json:"is_active"`
	OccurredAt time.Time `json:"occurred_at"`
}
