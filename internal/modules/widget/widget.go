package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"walkindesk/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	isoLayout      = "2006-01-02T15:04:05.000Z"
	defaultAirCode = "DEL"
)

const (
	opCreate = "create"
	opAction = "action"
)

// Widget drives one desk agent's walk-in booking screen.
type Widget struct {
	backend   Backend
	presenter Presenter
	picklists PicklistSource
	now       func() time.Time
	newKey    func() string
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
	// loadGen numbers inventory loads; only the newest clears Loading.
	loadGen uint64
	state    atomic.Pointer[State]
}

type Option func(*Widget)

func WithClock(now func() time.Time) Option {
	return func(w *Widget) { w.now = now }
}

func WithPicklists(p PicklistSource) Option {
	return func(w *Widget) { w.picklists = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// WithKeyFunc overrides how idempotency keys for new booking forms are made.
func WithKeyFunc(fn func() string) Option {
	return func(w *Widget) { w.newKey = fn }
}

func New(backend Backend, presenter Presenter, opts ...Option) *Widget {
	w := &Widget{
		backend:   backend,
		presenter: presenter,
		now:       time.Now,
		newKey:    uuid.NewString,
		logger:    slog.Default(),
		inFlight:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	initial := State{SelectedDate: w.now().Format(dateLayout)}
	w.state.Store(&initial)
	return w
}

// State returns the latest snapshot.
func (w *Widget) State() State {
	return *w.state.Load()
}

func (w *Widget) update(fn func(s State) State) State {
	next, _ := w.apply(func(s State) (State, error) { return fn(s), nil })
	return next
}

// apply publishes fn's result unless it returns an error.
func (w *Widget) apply(fn func(s State) (State, error)) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur := *w.state.Load()
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	w.state.Store(&next)
	return next, nil
}

func (w *Widget) begin(op string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[op] {
		return false
	}
	w.inFlight[op] = true
	return true
}

func (w *Widget) end(op string) {
	w.mu.Lock()
	delete(w.inFlight, op)
	w.mu.Unlock()
}

func (w *Widget) notify(ctx context.Context, variant Variant, title, message string) {
	w.presenter.Notify(ctx, Notification{Title: title, Message: message, Variant: variant})
}

func userMessage(err error, fallback string) string {
	var m userMessager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}

// Init loads airports, preselects Delhi (or the first airport) and loads its
// inventory.
func (w *Widget) Init(ctx context.Context) (State, error) {
	airports, err := w.backend.ListAirports(ctx)
	if err != nil {
		w.logger.Error("list airports failed", "error", err)
		w.notify(ctx, VariantError, "Error", "Failed to load airports")
		return w.State(), fmt.Errorf("list airports: %w", err)
	}

	w.update(func(s State) State {
		s.Airports = airports
		s.SelectedAirport = defaultAirport(airports)
		return s
	})

	w.loadPicklists(ctx)
	return w.LoadInventory(ctx)
}

func defaultAirport(airports []domain.Airport) string {
	for _, a := range airports {
		if a.Code == defaultAirCode || strings.Contains(a.Label(), "Delhi") {
			return a.ID
		}
	}
	if len(airports) > 0 {
		return airports[0].ID
	}
	return ""
}

func (w *Widget) loadPicklists(ctx context.Context) {
	if w.picklists == nil {
		return
	}
	nationality, idType, err := w.picklists.CustomerPicklists(ctx)
	if err != nil {
		w.logger.Error("load customer picklists failed", "error", err)
		return
	}
	w.update(func(s State) State {
		s.NationalityOptions = nationality
		s.IDTypeOptions = idType
		return s
	})
}

func (w *Widget) SelectAirport(ctx context.Context, airportID string) (State, error) {
	w.update(func(s State) State {
		s.SelectedAirport = airportID
		return s
	})
	return w.LoadInventory(ctx)
}

func (w *Widget) SelectDate(ctx context.Context, date string) (State, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return w.State(), fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	w.update(func(s State) State {
		s.SelectedDate = date
		return s
	})
	return w.LoadInventory(ctx)
}

// LoadInventory fetches the room grid for the selected airport and date. On
// failure the previous grid stays in place.
func (w *Widget) LoadInventory(ctx context.Context) (State, error) {
	var gen uint64
	s := w.update(func(s State) State {
		if s.SelectedAirport != "" && s.SelectedDate != "" {
			w.loadGen++
			gen = w.loadGen
			s.Loading = true
		}
		return s
	})
	airportID, date := s.SelectedAirport, s.SelectedDate
	if airportID == "" || date == "" {
		return s, nil
	}

	items, err := w.backend.GetInventory(ctx, airportID, date)
	if err != nil {
		w.logger.Error("load room inventory failed", "airport_id", airportID, "date", date, "error", err)
		w.notify(ctx, VariantError, "Error", "Failed to load room inventory")
		s = w.update(func(s State) State {
			if w.loadGen == gen {
				s.Loading = false
			}
			return s
		})
		return s, fmt.Errorf("load inventory: %w", err)
	}

	return w.update(func(s State) State {
		if w.loadGen == gen {
			s.Loading = false
		}
		// a newer selection owns the grid now
		if s.SelectedAirport == airportID && s.SelectedDate == date {
			s.Inventory = items
		}
		return s
	}), nil
}

// SelectRoom opens the booking form for a room.
func (w *Widget) SelectRoom(ctx context.Context, roomID string) (State, error) {
	s, err := w.apply(func(s State) (State, error) {
		room, ok := s.room(roomID)
		if !ok {
			return s, ErrRoomNotFound
		}
		if room.Status == domain.RoomMaintenance {
			return s, ErrRoomMaintenance
		}
		now := w.now()
		return s.openForm(room, DefaultStartTime(room, now).In(now.Location()), w.newKey()), nil
	})
	if errors.Is(err, ErrRoomMaintenance) {
		w.notify(ctx, VariantWarning, "Unavailable", "This room is under maintenance")
	}
	return s, err
}

func (w *Widget) SetDuration(value string) (State, error) {
	return w.apply(func(s State) (State, error) {
		if s.Form == nil {
			return s, ErrNoBookingForm
		}
		if !durationOffered(s.Form.Room, value) {
			return s, fmt.Errorf("%w: duration %q is not offered for %s", ErrValidation, value, s.Form.Room.RoomType)
		}
		return s.updateForm(func(f BookingForm) BookingForm {
			f.Duration = value
			return f
		}), nil
	})
}

// SetStartTime accepts a datetime-local value (YYYY-MM-DDTHH:MM) or RFC 3339.
// Form times are kept in the clock's zone so the view echoes them back as
// typed.
func (w *Widget) SetStartTime(value string) (State, error) {
	loc := w.now().Location()
	t, err := time.ParseInLocation(inputTimeLayout, value, loc)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, value); err != nil {
			return w.State(), fmt.Errorf("%w: invalid start time %q", ErrValidation, value)
		}
		t = t.In(loc)
	}
	return w.apply(func(s State) (State, error) {
		if s.Form == nil {
			return s, ErrNoBookingForm
		}
		return s.updateForm(func(f BookingForm) BookingForm {
			f.StartTime = t
			return f
		}), nil
	})
}

// ChangePhone records the typed phone and, once it is long enough, looks the
// customer up. Lookup failures never block manual entry.
func (w *Widget) ChangePhone(ctx context.Context, phone string) (State, error) {
	s, err := w.apply(func(s State) (State, error) {
		if s.Form == nil {
			return s, ErrNoBookingForm
		}
		return s.updateForm(func(f BookingForm) BookingForm {
			f.Customer.Phone = phone
			return f
		}), nil
	})
	if err != nil || utf8.RuneCountInString(phone) < phoneLookupMinLen {
		return s, err
	}

	customer, err := w.backend.SearchCustomer(ctx, phone)
	if err != nil {
		w.logger.Warn("customer search failed", "error", err)
	}

	return w.update(func(s State) State {
		// stale lookup: the form closed or the phone changed meanwhile
		if s.Form == nil || s.Form.Customer.Phone != phone {
			return s
		}
		return s.updateForm(func(f BookingForm) BookingForm {
			if err == nil && customer != nil {
				f.Customer = customer.Apply(f.Customer)
				return f
			}
			f.Customer.IsExisting = false
			f.Customer.CustomerID = ""
			return f
		})
	}), nil
}

func (w *Widget) SetCustomerField(ctx context.Context, field, value string) (State, error) {
	if field == "phone" {
		return w.ChangePhone(ctx, value)
	}
	return w.apply(func(s State) (State, error) {
		if s.Form == nil {
			return s, ErrNoBookingForm
		}
		c, err := setCustomerField(s.Form.Customer, field, value)
		if err != nil {
			return s, err
		}
		return s.updateForm(func(f BookingForm) BookingForm {
			f.Customer = c
			return f
		}), nil
	})
}

// CreateBooking submits the open form as one request.
func (w *Widget) CreateBooking(ctx context.Context) (State, error) {
	s := w.State()
	if !IsFormValid(s.Form) {
		w.notify(ctx, VariantError, "Error", "Please fill all required fields")
		return s, ErrValidation
	}
	if !w.begin(opCreate) {
		return s, ErrBusy
	}
	defer w.end(opCreate)

	form := *s.Form
	req := domain.WalkInBookingRequest{
		RoomID:         form.Room.RoomID,
		AirportID:      s.SelectedAirport,
		Duration:       form.Duration,
		StartDateTime:  form.StartTime.UTC().Format(isoLayout),
		CustomerData:   form.Customer,
		IdempotencyKey: form.IdempotencyKey,
	}

	w.update(func(s State) State {
		s.Submitting = true
		return s
	})

	ref, err := w.backend.CreateBooking(ctx, req)
	if err != nil {
		w.logger.Error("create walk-in booking failed", "room_id", req.RoomID, "error", err)
		w.update(func(s State) State {
			s.Submitting = false
			return s
		})
		w.notify(ctx, VariantError, "Error", userMessage(err, "Failed to create booking"))
		return w.State(), fmt.Errorf("create booking: %w", err)
	}

	if ref != nil {
		w.logger.Info("walk-in booking created", "booking_id", ref.BookingID, "room_id", req.RoomID)
	}
	w.notify(ctx, VariantSuccess, "Success", "Walk-in booking created successfully!")
	w.update(func(s State) State {
		s.Submitting = false
		if s.Form != nil && s.Form.IdempotencyKey == form.IdempotencyKey {
			s = s.closeForm()
		}
		return s
	})

	s, _ = w.LoadInventory(ctx)
	return s, nil
}

func (w *Widget) CloseForm() State {
	return w.update(State.closeForm)
}

// ToggleRoom flips a room's active flag immediately and reverts it when the
// controller rejects the change.
func (w *Widget) ToggleRoom(ctx context.Context, roomID string, active bool) (State, error) {
	var previous bool
	_, err := w.apply(func(s State) (State, error) {
		room, ok := s.room(roomID)
		if !ok {
			return s, ErrRoomNotFound
		}
		previous = room.IsActive
		return s.withRoomActive(roomID, active), nil
	})
	if err != nil {
		return w.State(), err
	}

	if err := w.backend.ToggleRoom(ctx, roomID, active); err != nil {
		w.logger.Error("update room status failed", "room_id", roomID, "error", err)
		s := w.update(func(s State) State {
			return s.withRoomActive(roomID, previous)
		})
		w.notify(ctx, VariantError, "Error", "Failed to update room status")
		return s, fmt.Errorf("toggle room: %w", err)
	}

	verb := "deactivated"
	if active {
		verb = "activated"
	}
	w.notify(ctx, VariantSuccess, "Success", fmt.Sprintf("Room %s successfully", verb))
	s, _ := w.LoadInventory(ctx)
	return s, nil
}

// ViewBookings opens the bookings list for a room on the selected date.
func (w *Widget) ViewBookings(ctx context.Context, roomID string) (State, error) {
	_, err := w.apply(func(s State) (State, error) {
		room, ok := s.room(roomID)
		if !ok {
			return s, ErrRoomNotFound
		}
		s = s.openBookings(room)
		s.LoadingBookings = true
		return s, nil
	})
	if err != nil {
		return w.State(), err
	}
	return w.loadBookings(ctx, roomID)
}

func (w *Widget) loadBookings(ctx context.Context, roomID string) (State, error) {
	date := w.State().SelectedDate
	records, err := w.backend.ListBookings(ctx, roomID, date)
	if err != nil {
		w.logger.Error("load room bookings failed", "room_id", roomID, "date", date, "error", err)
		s := w.update(func(s State) State {
			s.LoadingBookings = false
			return s
		})
		w.notify(ctx, VariantError, "Error", "Failed to load room bookings")
		return s, fmt.Errorf("list bookings: %w", err)
	}

	return w.update(func(s State) State {
		s.LoadingBookings = false
		if s.Bookings != nil && s.Bookings.Room.RoomID == roomID {
			s = s.withBookings(records)
		}
		return s
	}), nil
}

func (w *Widget) CloseBookings() State {
	return w.update(State.closeBookings)
}

// BookingAction applies a lifecycle action to a listed booking, then
// refreshes the bookings list and the room grid.
func (w *Widget) BookingAction(ctx context.Context, bookingID string, action Action, additionalHours int) (State, error) {
	s := w.State()
	if s.Bookings == nil {
		return s, ErrNoBookingsModal
	}
	row, ok := s.booking(bookingID)
	if !ok {
		return s, ErrBookingNotFound
	}
	if !row.Actions.Allows(action) {
		w.notify(ctx, VariantError, "Error", fmt.Sprintf("This action is not available for a %s booking", row.Status))
		return s, ErrActionNotPermitted
	}
	if action == ActionExtend && additionalHours <= 0 {
		w.notify(ctx, VariantError, "Error", "Extension hours must be positive")
		return s, ErrValidation
	}
	if !w.begin(opAction) {
		return s, ErrBusy
	}
	defer w.end(opAction)

	roomID := s.Bookings.Room.RoomID
	w.update(func(s State) State {
		s.LoadingBookings = true
		return s
	})

	var (
		message string
		doc     *Document
		err     error
	)
	switch action {
	case ActionCheckIn:
		_, err = w.backend.UpdateStatus(ctx, bookingID, domain.BookingInProgress)
		message = "Customer checked in successfully"
		doc = &Document{Kind: DocumentRegistrationForm, ID: bookingID}
	case ActionCheckOut:
		var docID string
		docID, err = w.backend.UpdateStatus(ctx, bookingID, domain.BookingCompleted)
		message = "Customer checked out successfully"
		if docID != "" {
			doc = &Document{Kind: DocumentDownload, ID: docID}
		}
	case ActionCancel:
		_, err = w.backend.UpdateStatus(ctx, bookingID, domain.BookingCancelled)
		message = "Booking cancelled successfully"
	case ActionNoShow:
		_, err = w.backend.UpdateStatus(ctx, bookingID, domain.BookingNoShow)
		message = "Booking marked as No Show"
	case ActionExtend:
		err = w.backend.ExtendBooking(ctx, bookingID, additionalHours)
		message = fmt.Sprintf("Booking extended by %d hour", additionalHours)
	}
	if err != nil {
		w.logger.Error("booking action failed", "booking_id", bookingID, "action", action, "error", err)
		s := w.update(func(s State) State {
			s.LoadingBookings = false
			return s
		})
		w.notify(ctx, VariantError, "Error", userMessage(err, "Action failed"))
		return s, fmt.Errorf("%s booking: %w", action, err)
	}

	w.notify(ctx, VariantSuccess, "Success", message)
	if doc != nil {
		w.presenter.OpenDocument(ctx, *doc)
	}

	if cur := w.State().Bookings; cur != nil && cur.Room.RoomID == roomID {
		_, _ = w.loadBookings(ctx, roomID)
	} else {
		w.update(func(s State) State {
			s.LoadingBookings = false
			return s
		})
	}
	s, _ = w.LoadInventory(ctx)
	return s, nil
}
