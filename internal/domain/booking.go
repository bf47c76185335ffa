package domain

import "time"

type BookingStatus string

const (
	BookingDraft      BookingStatus = "Draft"
	BookingConfirmed  BookingStatus = "Confirmed"
	BookingInProgress BookingStatus = "In Progress"
	BookingCompleted  BookingStatus = "Completed"
	BookingCancelled  BookingStatus = "Cancelled"
	BookingNoShow     BookingStatus = "No Show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingDraft, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// Terminal statuses accept no further lifecycle action.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingNoShow
}

// RoomBookingRecord is a booking row as listed for one room and date.
type RoomBookingRecord struct {
	ID            string        `json:"booking_id"`
	CustomerPhone string        `json:"customer_phone"`
	CustomerName  string        `json:"customer_name,omitempty"`
	Status        BookingStatus `json:"status"`
	StartTime     *time.Time    `json:"start_time,omitempty"`
	EndTime       *time.Time    `json:"end_time,omitempty"`
}

// WalkInBookingRequest is submitted as one atomic create call.
type WalkInBookingRequest struct {
	RoomID         string        `json:"roomId" validate:"required"`
	AirportID      string        `json:"airportId" validate:"required"`
	Duration       string        `json:"duration" validate:"required,oneof=0.5 3 6 12"`
	StartDateTime  string        `json:"startDateTime" validate:"required"`
	CustomerData   CustomerDraft `json:"customerData"`
	IdempotencyKey string        `json:"-"`
}

type BookingRef struct {
	BookingID  string `json:"booking_id"`
	DocumentID string `json:"document_id,omitempty"`
}

// Booking is a stored walk-in booking.
type Booking struct {
	ID              string
	RoomID          string
	AirportID       string
	CustomerID      string
	Duration        string
	StartTime       time.Time
	EndTime         time.Time
	Status          BookingStatus
	PaymentMethod   string
	SpecialRequests string
	IdempotencyKey  string
	DocumentID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active bookings hold their room.
func (b Booking) Active() bool {
	return b.Status == BookingConfirmed || b.Status == BookingInProgress
}
