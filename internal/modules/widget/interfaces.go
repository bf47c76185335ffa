package widget

import (
	"context"

	"walkindesk/internal/domain"
)

// Backend is the controller capability set the widget drives.
type Backend interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	GetInventory(ctx context.Context, airportID, date string) ([]domain.RoomInventoryItem, error)
	// SearchCustomer returns nil, nil when no customer has the phone.
	SearchCustomer(ctx context.Context, phone string) (*domain.Customer, error)
	CreateBooking(ctx context.Context, req domain.WalkInBookingRequest) (*domain.BookingRef, error)
	ListBookings(ctx context.Context, roomID, date string) ([]domain.RoomBookingRecord, error)
	// UpdateStatus returns a document id when the controller produced one.
	UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (string, error)
	ExtendBooking(ctx context.Context, bookingID string, additionalHours int) error
	ToggleRoom(ctx context.Context, roomID string, isActive bool) error
}

// PicklistSource resolves the customer record type's enumerated options.
type PicklistSource interface {
	CustomerPicklists(ctx context.Context) (nationality, idType []domain.PicklistOption, err error)
}

// Presenter receives the side effects the rendering layer shows.
type Presenter interface {
	Notify(ctx context.Context, n Notification)
	OpenDocument(ctx context.Context, d Document)
}

// userMessager is implemented by backend errors that carry a message fit for
// display.
type userMessager interface {
	UserMessage() string
}
