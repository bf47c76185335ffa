package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"walkindesk/internal/domain"
	"walkindesk/internal/idempotency"
	"walkindesk/internal/pkg/validator"
	"walkindesk/internal/repository"

	"github.com/google/uuid"
)

const (
	dateLayout            = "2006-01-02"
	DefaultHandoffBuffer  = 30 * time.Minute
	DefaultRecordType     = "Customer"
	maxExtensionHours     = 24
	backdatedStartAllowed = 15 * time.Minute
)

// transitions lists the statuses each status may move to.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingDraft:      {domain.BookingCancelled},
	domain.BookingConfirmed:  {domain.BookingInProgress, domain.BookingCancelled, domain.BookingNoShow},
	domain.BookingInProgress: {domain.BookingCompleted},
}

func CanTransition(from, to domain.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Repositories struct {
	Airports  AirportStore
	Rooms     RoomStore
	Customers CustomerStore
	Bookings  BookingStore
	Picklists PicklistStore
}

// Service is a stand-in booking controller for development and tests.
type Service struct {
	repos  Repositories
	idem   idempotency.Store
	events EventPublisher
	buffer time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repos Repositories, idem idempotency.Store, events EventPublisher, buffer time.Duration) *Service {
	if idem == nil {
		idem = idempotency.NewMemoryStore()
	}
	if events == nil {
		events = LogPublisher{}
	}
	return &Service{
		repos:  repos,
		idem:   idem,
		events: events,
		buffer: buffer,
		now:    time.Now,
		logger: slog.Default(),
	}
}

func (s *Service) publish(ctx context.Context, routingKey string, payload any) {
	if err := s.events.Publish(ctx, routingKey, payload); err != nil {
		s.logger.Warn("publish lifecycle event failed", "routing_key", routingKey, "error", err)
	}
}

func (s *Service) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.repos.Airports.List(ctx)
}

func parseDay(date string) (time.Time, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, invalid("date must be YYYY-MM-DD")
	}
	return day, nil
}

// Inventory reports each room of an airport as it stands at the reference
// instant: now when date is today, otherwise the start of that day.
func (s *Service) Inventory(ctx context.Context, airportID, date string) ([]domain.RoomInventoryItem, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Airports.GetByID(ctx, airportID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAirportNotFound
		}
		return nil, err
	}

	rooms, err := s.repos.Rooms.ListByAirport(ctx, airportID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	at := day
	if now.Format(dateLayout) == date {
		at = now
	}

	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	busyUntil, err := s.repos.Bookings.ActiveAt(ctx, ids, at)
	if err != nil {
		return nil, err
	}

	items := make([]domain.RoomInventoryItem, 0, len(rooms))
	for _, r := range rooms {
		item := domain.RoomInventoryItem{
			RoomID:     r.ID,
			RoomNumber: r.RoomNumber,
			RoomType:   r.RoomType,
			Status:     domain.RoomAvailable,
			IsActive:   r.IsActive,
		}
		if end, ok := busyUntil[r.ID]; ok {
			next := end.Add(s.buffer)
			item.Status = domain.RoomOccupied
			item.NextAvailableTime = &next
		}
		if r.OutOfService() {
			item.Status = domain.RoomMaintenance
			item.NextAvailableTime = nil
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) SearchCustomer(ctx context.Context, phone string) (*domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, invalid("phone is required")
	}
	c, err := s.repos.Customers.GetByPhone(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func ref(b *domain.Booking) *domain.BookingRef {
	return &domain.BookingRef{BookingID: b.ID, DocumentID: b.DocumentID}
}

// CreateWalkIn stores a confirmed walk-in booking. The returned flag is true
// when the idempotency key had already produced a booking, which is returned
// unchanged.
func (s *Service) CreateWalkIn(ctx context.Context, req domain.WalkInBookingRequest) (*domain.BookingRef, bool, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, false, &ValidationError{Message: "Please fill all required fields", Fields: fields}
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	claimed := false
	if key != "" {
		stored, done, err := s.idem.Begin(ctx, key)
		switch {
		case errors.Is(err, idempotency.ErrInProgress):
			return nil, false, ErrRequestInProgress
		case err != nil:
			// the booking table still enforces the key
			s.logger.Warn("idempotency store unavailable", "error", err)
		case done:
			var out domain.BookingRef
			if err := json.Unmarshal([]byte(stored), &out); err == nil {
				return &out, true, nil
			}
		default:
			claimed = true
		}
	}

	out, replayed, err := s.createWalkIn(ctx, req, key)

	if claimed {
		if err != nil {
			if relErr := s.idem.Release(ctx, key); relErr != nil {
				s.logger.Warn("release idempotency key failed", "error", relErr)
			}
		} else if raw, mErr := json.Marshal(out); mErr == nil {
			if cErr := s.idem.Complete(ctx, key, string(raw)); cErr != nil {
				s.logger.Warn("complete idempotency key failed", "error", cErr)
			}
		}
	}
	return out, replayed, err
}

func (s *Service) createWalkIn(ctx context.Context, req domain.WalkInBookingRequest, key string) (*domain.BookingRef, bool, error) {
	if key != "" {
		existing, err := s.repos.Bookings.GetByIdempotencyKey(ctx, key)
		if err == nil {
			return ref(existing), true, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, false, err
		}
	}

	start, err := time.Parse(time.RFC3339, req.StartDateTime)
	if err != nil {
		return nil, false, invalid("startDateTime must be an ISO 8601 timestamp")
	}
	start = start.UTC().Truncate(time.Second)
	if start.Before(s.now().UTC().Add(-backdatedStartAllowed)) {
		return nil, false, invalid("Start time cannot be in the past")
	}
	hours, err := strconv.ParseFloat(req.Duration, 64)
	if err != nil {
		return nil, false, invalid("duration %q is not supported", req.Duration)
	}
	end := start.Add(time.Duration(hours * float64(time.Hour)))

	room, err := s.repos.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrRoomNotFound
		}
		return nil, false, err
	}
	if room.AirportID != req.AirportID {
		return nil, false, invalid("Room does not belong to the selected airport")
	}
	if room.OutOfService() {
		return nil, false, ErrRoomUnavailable
	}
	if shower := room.RoomType == domain.RoomTypeShowerOnly; shower != (req.Duration == "0.5") {
		return nil, false, invalid("Duration %s hours is not offered for %s rooms", req.Duration, room.RoomType)
	}

	b := &domain.Booking{
		RoomID:          room.ID,
		AirportID:       room.AirportID,
		Duration:        req.Duration,
		StartTime:       start,
		EndTime:         end,
		Status:          domain.BookingConfirmed,
		PaymentMethod:   req.CustomerData.PaymentMethod,
		SpecialRequests: req.CustomerData.SpecialRequests,
		IdempotencyKey:  key,
	}
	if err := s.repos.Bookings.CreateWithCustomer(ctx, req.CustomerData, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, false, ErrRoomBooked
		case errors.Is(err, repository.ErrNotFound):
			return nil, false, ErrRoomNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			existing, getErr := s.repos.Bookings.GetByIdempotencyKey(ctx, key)
			if getErr != nil {
				return nil, false, getErr
			}
			return ref(existing), true, nil
		}
		return nil, false, fmt.Errorf("store walk-in booking: %w", err)
	}

	s.logger.Info("walk-in booking created", "booking_id", b.ID, "room_id", b.RoomID, "customer_id", b.CustomerID)
	s.publish(ctx, EventBookingCreated, BookingEvent{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		AirportID:  b.AirportID,
		CustomerID: b.CustomerID,
		Status:     string(b.Status),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: s.now().UTC(),
	})
	return ref(b), false, nil
}

func (s *Service) ListRoomBookings(ctx context.Context, roomID, date string) ([]domain.RoomBookingRecord, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.repos.Bookings.ListForRoom(ctx, roomID, day, day.Add(24*time.Hour))
}

func (s *Service) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.repos.Bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatus applies a lifecycle transition. Checking out returns the id
// of the generated checkout document.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, status string) (string, error) {
	to := domain.BookingStatus(status)
	if !to.Valid() {
		return "", invalid("Unknown booking status %q", status)
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if !CanTransition(b.Status, to) {
		return "", &TransitionError{From: string(b.Status), To: string(to)}
	}

	var docID string
	if to == domain.BookingCompleted {
		docID = uuid.NewString()
	}
	if err := s.repos.Bookings.Transition(ctx, b.ID, b.Status, to, docID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return "", &TransitionError{From: string(b.Status), To: string(to)}
		}
		return "", err
	}

	s.logger.Info("booking status changed", "booking_id", b.ID, "from", b.Status, "to", to)
	s.publish(ctx, EventBookingStatusChanged, BookingEvent{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		AirportID:  b.AirportID,
		CustomerID: b.CustomerID,
		Status:     string(to),
		PrevStatus: string(b.Status),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		DocumentID: docID,
		OccurredAt: s.now().UTC(),
	})
	return docID, nil
}

// Extend lengthens an in-progress booking by whole hours.
func (s *Service) Extend(ctx context.Context, bookingID string, hours int) (time.Time, error) {
	if hours <= 0 || hours > maxExtensionHours {
		return time.Time{}, invalid("Extension must be between 1 and %d hours", maxExtensionHours)
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return time.Time{}, err
	}
	if b.Status != domain.BookingInProgress {
		return time.Time{}, invalid("Only in-progress bookings can be extended")
	}

	newEnd := b.EndTime.Add(time.Duration(hours) * time.Hour)
	if err := s.repos.Bookings.Extend(ctx, b.ID, newEnd); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return time.Time{}, ErrRoomBooked
		case errors.Is(err, repository.ErrStaleStatus):
			return time.Time{}, invalid("Only in-progress bookings can be extended")
		}
		return time.Time{}, err
	}

	s.publish(ctx, EventBookingExtended, BookingEvent{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		AirportID:  b.AirportID,
		CustomerID: b.CustomerID,
		Status:     string(b.Status),
		StartTime:  b.StartTime,
		EndTime:    newEnd,
		OccurredAt: s.now().UTC(),
	})
	return newEnd, nil
}

func (s *Service) SetRoomActive(ctx context.Context, roomID string, active bool) error {
	if err := s.repos.Rooms.SetActive(ctx, roomID, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	s.publish(ctx, EventRoomStatusChanged, RoomEvent{RoomID: roomID, IsActive: active, OccurredAt: s.now().UTC()})
	return nil
}

func (s *Service) CustomerPicklists(ctx context.Context, recordType string) (*CustomerPicklists, error) {
	if strings.TrimSpace(recordType) == "" {
		recordType = DefaultRecordType
	}

	nationality, err := s.repos.Picklists.Values(ctx, recordType, "nationality")
	if err != nil {
		return nil, err
	}
	idType, err := s.repos.Picklists.Values(ctx, recordType, "id_type")
	if err != nil {
		return nil, err
	}
	return &CustomerPicklists{Nationality: nationality, IDType: idType}, nil
}
