package sandbox

import (
	"context"
	"time"

	"walkindesk/internal/domain"
)

type AirportStore interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByID(ctx context.Context, id string) (*domain.Airport, error)
}

type RoomStore interface {
	ListByAirport(ctx context.Context, airportID string) ([]domain.Room, error)
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type CustomerStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	// CreateWithCustomer saves d and b atomically and sets b.CustomerID.
	CreateWithCustomer(ctx context.Context, d domain.CustomerDraft, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error)
	ActiveAt(ctx context.Context, roomIDs []string, at time.Time) (map[string]time.Time, error)
	ListForRoom(ctx context.Context, roomID string, from, to time.Time) ([]domain.RoomBookingRecord, error)
	Transition(ctx context.Context, id string, from, to domain.BookingStatus, documentID string) error
	Extend(ctx context.Context, id string, newEnd time.Time) error
}

type PicklistStore interface {
	Values(ctx context.Context, recordType, field string) ([]domain.PicklistOption, error)
}

// EventPublisher delivers lifecycle events, e.g. to RabbitMQ.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
