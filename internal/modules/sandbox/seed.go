package sandbox

import (
	"context"
	"fmt"
	"time"

	"walkindesk/internal/domain"
	"walkindesk/internal/repository"

	"gorm.io/gorm"
)

// Fixture names the records created by Seed.
type Fixture struct {
	Delhi, Mumbai, Bengaluru domain.Airport

	// Rooms is keyed by room number.
	Rooms map[string]domain.Room

	Customer         *domain.Customer
	InProgressID     string
	UpcomingID       string
	InProgressEndsAt time.Time
}

// Seed migrates the schema and loads demo airports, rooms, picklists, a
// returning customer and two bookings around now.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) (*Fixture, error) {
	if err := repository.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	airports := repository.NewAirportRepository(db)
	rooms := repository.NewRoomRepository(db)
	customers := repository.NewCustomerRepository(db)
	bookings := repository.NewBookingRepository(db)
	picklists := repository.NewPicklistRepository(db)

	f := &Fixture{
		Delhi:     domain.Airport{Name: "Indira Gandhi International", Code: "DEL"},
		Mumbai:    domain.Airport{Name: "Chhatrapati Shivaji Maharaj International", Code: "BOM"},
		Bengaluru: domain.Airport{Name: "Kempegowda International", Code: "BLR"},
		Rooms:     make(map[string]domain.Room),
	}
	for _, a := range []*domain.Airport{&f.Delhi, &f.Mumbai, &f.Bengaluru} {
		if err := airports.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("create airport %s: %w", a.Code, err)
		}
	}

	roomSpecs := []domain.Room{
		{AirportID: f.Delhi.ID, RoomNumber: "101", RoomType: "Standard", IsActive: true},
		{AirportID: f.Delhi.ID, RoomNumber: "102", RoomType: "Deluxe", IsActive: true},
		{AirportID: f.Delhi.ID, RoomNumber: "103", RoomType: domain.RoomTypeShowerOnly, IsActive: true},
		{AirportID: f.Delhi.ID, RoomNumber: "104", RoomType: "Standard", IsActive: true, Maintenance: true},
		{AirportID: f.Mumbai.ID, RoomNumber: "201", RoomType: "Standard", IsActive: true},
		{AirportID: f.Mumbai.ID, RoomNumber: "202", RoomType: domain.RoomTypeShowerOnly, IsActive: true},
		{AirportID: f.Bengaluru.ID, RoomNumber: "301", RoomType: "Deluxe", IsActive: true},
	}
	for _, r := range roomSpecs {
		room := r
		if err := rooms.Create(ctx, &room); err != nil {
			return nil, fmt.Errorf("create room %s: %w", r.RoomNumber, err)
		}
		f.Rooms[room.RoomNumber] = room
	}

	if err := picklists.Add(ctx, DefaultRecordType, "nationality",
		domain.PicklistOption{Label: "Indian", Value: "Indian"},
		domain.PicklistOption{Label: "American", Value: "American"},
		domain.PicklistOption{Label: "British", Value: "British"},
		domain.PicklistOption{Label: "Other", Value: "Other"},
	); err != nil {
		return nil, fmt.Errorf("seed nationality picklist: %w", err)
	}
	if err := picklists.Add(ctx, DefaultRecordType, "id_type",
		domain.PicklistOption{Label: "Passport", Value: "Passport"},
		domain.PicklistOption{Label: "Aadhaar", Value: "Aadhaar"},
		domain.PicklistOption{Label: "Driving License", Value: "Driving License"},
	); err != nil {
		return nil, fmt.Errorf("seed id type picklist: %w", err)
	}

	draft := domain.NewCustomerDraft()
	draft.Title = "Ms."
	draft.FirstName = "Asha"
	draft.LastName = "Rao"
	draft.Email = "asha.rao@example.com"
	draft.Phone = "9876543210"
	draft.Street = "12 MG Road"
	draft.City = "New Delhi"
	draft.StatePostalCode = "110001"
	draft.Nationality = "Indian"
	draft.IDType = "Passport"
	draft.PassportNumber = "P1234567"
	customer, err := customers.Save(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("seed customer: %w", err)
	}
	f.Customer = customer

	base := now.UTC().Truncate(time.Minute)
	inProgress := &domain.Booking{
		RoomID:     f.Rooms["102"].ID,
		AirportID:  f.Delhi.ID,
		CustomerID: customer.ID,
		Duration:   "6",
		StartTime:  base.Add(-2 * time.Hour),
		EndTime:    base.Add(4 * time.Hour),
		Status:     domain.BookingInProgress,
	}
	upcoming := &domain.Booking{
		RoomID:     f.Rooms["101"].ID,
		AirportID:  f.Delhi.ID,
		CustomerID: customer.ID,
		Duration:   "3",
		StartTime:  base.Add(8 * time.Hour),
		EndTime:    base.Add(11 * time.Hour),
		Status:     domain.BookingConfirmed,
	}
	for _, b := range []*domain.Booking{inProgress, upcoming} {
		if err := bookings.Create(ctx, b); err != nil {
			return nil, fmt.Errorf("seed booking: %w", err)
		}
	}
	f.InProgressID = inProgress.ID
	f.InProgressEndsAt = inProgress.EndTime
	f.UpcomingID = upcoming.ID

	return f, nil
}
