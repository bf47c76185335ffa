package widget

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"walkindesk/internal/domain"
)

const startSlot = 15 * time.Minute

// Phone lookups fire once the typed number reaches this length.
const phoneLookupMinLen = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type DurationOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var (
	standardDurations = []DurationOption{
		{Label: "3 Hours", Value: "3"},
		{Label: "6 Hours", Value: "6"},
		{Label: "6 + 6 Hours", Value: "12"},
	}
	showerDurations = []DurationOption{
		{Label: "30 Minutes", Value: "0.5"},
	}
)

var TitleOptions = []string{"Mr.", "Mrs.", "Ms.", "Dr."}

var PaymentMethodOptions = []string{"Cash", "Credit Card", "Debit Card", "UPI", "Net Banking"}

// DurationOptions lists the bookable durations for a room type.
func DurationOptions(room domain.RoomInventoryItem) []DurationOption {
	src := standardDurations
	if room.IsShowerOnly() {
		src = showerDurations
	}
	out := make([]DurationOption, len(src))
	copy(out, src)
	return out
}

func durationOffered(room domain.RoomInventoryItem, value string) bool {
	for _, o := range DurationOptions(room) {
		if o.Value == value {
			return true
		}
	}
	return false
}

// DurationHours converts an option value such as "6" or "0.5" to a length.
func DurationHours(value string) (time.Duration, bool) {
	h, err := strconv.ParseFloat(value, 64)
	if err != nil || h <= 0 {
		return 0, false
	}
	return time.Duration(h * float64(time.Hour)), true
}

// RoundUpToSlot returns the first 15-minute boundary at or after now.
func RoundUpToSlot(now time.Time) time.Time {
	hour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	offset := now.Sub(hour)
	steps := (offset + startSlot - 1) / startSlot
	return hour.Add(steps * startSlot)
}

// DefaultStartTime proposes a start for a freshly selected room. The
// controller's next-available time already includes the hand-off buffer.
func DefaultStartTime(room domain.RoomInventoryItem, now time.Time) time.Time {
	if room.Status == domain.RoomOccupied && room.NextAvailableTime != nil {
		return *room.NextAvailableTime
	}
	return RoundUpToSlot(now)
}

// MaskPhone keeps the first two and last four characters. Numbers shorter
// than six characters are returned as is.
func MaskPhone(phone string) string {
	r := []rune(phone)
	if len(r) < 6 {
		return phone
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-6) + string(r[len(r)-4:])
}

type Actions struct {
	CanCheckIn    bool `json:"can_check_in"`
	CanCheckOut   bool `json:"can_check_out"`
	CanExtend     bool `json:"can_extend"`
	CanCancel     bool `json:"can_cancel"`
	CanMarkNoShow bool `json:"can_mark_no_show"`
}

func PermittedActions(status domain.BookingStatus) Actions {
	return Actions{
		CanCheckIn:    status == domain.BookingConfirmed,
		CanCheckOut:   status == domain.BookingInProgress,
		CanExtend:     status == domain.BookingInProgress,
		CanCancel:     status == domain.BookingDraft || status == domain.BookingConfirmed,
		CanMarkNoShow: status == domain.BookingConfirmed,
	}
}

func (a Actions) Allows(action Action) bool {
	switch action {
	case ActionCheckIn:
		return a.CanCheckIn
	case ActionCheckOut:
		return a.CanCheckOut
	case ActionCancel:
		return a.CanCancel
	case ActionNoShow:
		return a.CanMarkNoShow
	case ActionExtend:
		return a.CanExtend
	}
	return false
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsFormValid reports whether the booking form can be submitted.
func IsFormValid(f *BookingForm) bool {
	if f == nil || f.Room.RoomID == "" || f.Duration == "" || f.StartTime.IsZero() {
		return false
	}
	c := f.Customer
	return c.FirstName != "" &&
		c.LastName != "" &&
		c.Phone != "" &&
		c.Email != "" && IsValidEmail(c.Email) &&
		c.Street != "" &&
		c.City != "" &&
		c.Country != "" &&
		c.Nationality != "" &&
		c.PassportNumber != "" &&
		c.PaymentMethod != ""
}
