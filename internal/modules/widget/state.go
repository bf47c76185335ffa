package widget

import (
	"fmt"
	"time"

	"walkindesk/internal/domain"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
)

type Notification struct {
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Variant Variant `json:"variant"`
}

type DocumentKind string

const (
	DocumentRegistrationForm DocumentKind = "registration_form"
	DocumentDownload         DocumentKind = "download"
)

// Document is an external page the agent should open, identified by the
// controller.
type Document struct {
	Kind DocumentKind `json:"kind"`
	ID   string       `json:"id"`
}

type Action string

const (
	ActionCheckIn  Action = "checkin"
	ActionCheckOut Action = "checkout"
	ActionCancel   Action = "cancel"
	ActionNoShow   Action = "noshow"
	ActionExtend   Action = "extend"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionCheckIn, ActionCheckOut, ActionCancel, ActionNoShow, ActionExtend:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// BookingForm is the open booking draft.
type BookingForm struct {
	Room           domain.RoomInventoryItem
	Duration       string
	StartTime      time.Time
	Customer       domain.CustomerDraft
	IdempotencyKey string
}

// EndTime is StartTime plus the selected duration, zero while either is unset.
func (f BookingForm) EndTime() time.Time {
	d, ok := DurationHours(f.Duration)
	if !ok || f.StartTime.IsZero() {
		return time.Time{}
	}
	return f.StartTime.Add(d)
}

type BookingRow struct {
	domain.RoomBookingRecord
	MaskedPhone string `json:"masked_phone"`
	Actions
}

func newBookingRow(r domain.RoomBookingRecord) BookingRow {
	return BookingRow{
		RoomBookingRecord: r,
		MaskedPhone:       MaskPhone(r.CustomerPhone),
		Actions:           PermittedActions(r.Status),
	}
}

type BookingsModal struct {
	Room     domain.RoomInventoryItem
	Bookings []BookingRow
}

// State is one immutable snapshot of the widget. Transitions return a new
// value and never write through slices or pointers held by an older one.
type State struct {
	Airports        []domain.Airport
	SelectedAirport string
	SelectedDate    string
	Inventory       []domain.RoomInventoryItem
	Loading         bool
	Submitting      bool
	LoadingBookings bool
	Form            *BookingForm
	Bookings        *BookingsModal

	NationalityOptions []domain.PicklistOption
	IDTypeOptions      []domain.PicklistOption
}

func (s State) room(roomID string) (domain.RoomInventoryItem, bool) {
	for _, r := range s.Inventory {
		if r.RoomID == roomID {
			return r, true
		}
	}
	return domain.RoomInventoryItem{}, false
}

func (s State) withRoomActive(roomID string, active bool) State {
	inv := make([]domain.RoomInventoryItem, len(s.Inventory))
	copy(inv, s.Inventory)
	for i := range inv {
		if inv[i].RoomID == roomID {
			inv[i].IsActive = active
		}
	}
	s.Inventory = inv
	return s
}

func (s State) openForm(room domain.RoomInventoryItem, start time.Time, key string) State {
	s.Bookings = nil
	s.LoadingBookings = false
	s.Form = &BookingForm{
		Room:           room,
		StartTime:      start,
		Customer:       domain.NewCustomerDraft(),
		IdempotencyKey: key,
	}
	return s
}

func (s State) closeForm() State {
	s.Form = nil
	return s
}

func (s State) updateForm(fn func(f BookingForm) BookingForm) State {
	if s.Form == nil {
		return s
	}
	f := fn(*s.Form)
	s.Form = &f
	return s
}

func (s State) openBookings(room domain.RoomInventoryItem) State {
	s.Form = nil
	s.Bookings = &BookingsModal{Room: room}
	return s
}

func (s State) withBookings(records []domain.RoomBookingRecord) State {
	if s.Bookings == nil {
		return s
	}
	rows := make([]BookingRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, newBookingRow(r))
	}
	s.Bookings = &BookingsModal{Room: s.Bookings.Room, Bookings: rows}
	return s
}

func (s State) closeBookings() State {
	s.Bookings = nil
	s.LoadingBookings = false
	return s
}

func (s State) booking(bookingID string) (BookingRow, bool) {
	if s.Bookings == nil {
		return BookingRow{}, false
	}
	for _, b := range s.Bookings.Bookings {
		if b.ID == bookingID {
			return b, true
		}
	}
	return BookingRow{}, false
}
