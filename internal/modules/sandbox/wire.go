package sandbox

import (
	"time"

	"walkindesk/internal/idempotency"
	"walkindesk/internal/repository"

	"gorm.io/gorm"
)

// NewServiceFromDB wires the gorm repositories into a Service.
func NewServiceFromDB(db *gorm.DB, idem idempotency.Store, events EventPublisher, buffer time.Duration) *Service {
	return NewService(Repositories{
		Airports:  repository.NewAirportRepository(db),
		Rooms:     repository.NewRoomRepository(db),
		Customers: repository.NewCustomerRepository(db),
		Bookings:  repository.NewBookingRepository(db),
		Picklists: repository.NewPicklistRepository(db),
	}, idem, events, buffer)
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
