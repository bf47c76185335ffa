package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"walkindesk/internal/domain"
)

func TestRoundUpToSlot(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{day.Add(10*time.Hour + 7*time.Minute), day.Add(10*time.Hour + 15*time.Minute)},
		{day.Add(10*time.Hour + 15*time.Minute), day.Add(10*time.Hour + 15*time.Minute)},
		{day.Add(10*time.Hour + 15*time.Minute + 30*time.Second), day.Add(10*time.Hour + 30*time.Minute)},
		{day.Add(10*time.Hour + 52*time.Minute), day.Add(11 * time.Hour)},
		{day.Add(23*time.Hour + 59*time.Minute), day.Add(24 * time.Hour)},
		{day.Add(9 * time.Hour), day.Add(9 * time.Hour)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundUpToSlot(tc.now), tc.now.Format(time.Kitchen))
	}
}

func TestRoundUpToSlot_BoundaryProperty(t *testing.T) {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	for s := 0; s < 2*3600; s += 37 {
		now := base.Add(time.Duration(s) * time.Second)
		got := RoundUpToSlot(now)

		assert.Zero(t, got.Minute()%15)
		assert.Zero(t, got.Second())
		assert.False(t, got.Before(now))
		assert.True(t, got.Before(now.Add(15*time.Minute)))
	}
}

func TestDefaultStartTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 7, 0, 0, time.UTC)
	next := time.Date(2024, 6, 1, 13, 30, 0, 0, time.UTC)

	occupied := domain.RoomInventoryItem{RoomID: "r1", Status: domain.RoomOccupied, NextAvailableTime: &next}
	assert.Equal(t, next, DefaultStartTime(occupied, now))

	available := domain.RoomInventoryItem{RoomID: "r2", Status: domain.RoomAvailable}
	assert.Equal(t, time.Date(2024, 6, 1, 10, 15, 0, 0, time.UTC), DefaultStartTime(available, now))

	occupiedUnknown := domain.RoomInventoryItem{RoomID: "r3", Status: domain.RoomOccupied}
	assert.Equal(t, time.Date(2024, 6, 1, 10, 15, 0, 0, time.UTC), DefaultStartTime(occupiedUnknown, now))
}

func TestDurationOptions(t *testing.T) {
	shower := DurationOptions(domain.RoomInventoryItem{RoomType: domain.RoomTypeShowerOnly})
	assert.Equal(t, []DurationOption{{Label: "30 Minutes", Value: "0.5"}}, shower)

	std := DurationOptions(domain.RoomInventoryItem{RoomType: "Standard"})
	assert.Len(t, std, 3)
	assert.Equal(t, "12", std[2].Value)
	assert.Equal(t, "6 + 6 Hours", std[2].Label)

	d, ok := DurationHours("12")
	assert.True(t, ok)
	assert.Equal(t, 12*time.Hour, d)

	d, ok = DurationHours("0.5")
	assert.True(t, ok)
	assert.Equal(t, 30*time.Minute, d)

	_, ok = DurationHours("")
	assert.False(t, ok)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "98****3210", MaskPhone("9876543210"))
	assert.Equal(t, "12345", MaskPhone("12345"))
	assert.Equal(t, "123456", MaskPhone("123456"))
	assert.Equal(t, "+9*******3210", MaskPhone("+919876543210"))
	assert.Equal(t, "", MaskPhone(""))
}

func TestPermittedActions(t *testing.T) {
	cases := map[domain.BookingStatus]Actions{
		domain.BookingDraft:      {CanCancel: true},
		domain.BookingConfirmed:  {CanCheckIn: true, CanCancel: true, CanMarkNoShow: true},
		domain.BookingInProgress: {CanCheckOut: true, CanExtend: true},
		domain.BookingCompleted:  {},
		domain.BookingCancelled:  {},
		domain.BookingNoShow:     {},
	}
	for status, want := range cases {
		assert.Equal(t, want, PermittedActions(status), string(status))
	}

	confirmed := PermittedActions(domain.BookingConfirmed)
	assert.True(t, confirmed.CanCheckIn)
	assert.False(t, confirmed.CanCheckOut)
	assert.True(t, confirmed.CanCancel)
	assert.True(t, confirmed.CanMarkNoShow)
	assert.False(t, confirmed.CanExtend)
}

func validForm() *BookingForm {
	c := domain.NewCustomerDraft()
	c.FirstName = "Asha"
	c.LastName = "Rao"
	c.Phone = "9876543210"
	c.Email = "asha@example.com"
	c.Street = "12 MG Road"
	c.City = "Delhi"
	c.Nationality = "Indian"
	c.PassportNumber = "P1234567"
	c.PaymentMethod = "UPI"
	return &BookingForm{
		Room:      domain.RoomInventoryItem{RoomID: "room-1", RoomType: "Standard", Status: domain.RoomAvailable},
		Duration:  "6",
		StartTime: time.Date(2024, 6, 1, 10, 15, 0, 0, time.UTC),
		Customer:  c,
	}
}

func TestIsFormValid(t *testing.T) {
	assert.True(t, IsFormValid(validForm()))
	assert.False(t, IsFormValid(nil))

	mutations := map[string]func(f *BookingForm){
		"room":        func(f *BookingForm) { f.Room = domain.RoomInventoryItem{} },
		"duration":    func(f *BookingForm) { f.Duration = "" },
		"start":       func(f *BookingForm) { f.StartTime = time.Time{} },
		"first name":  func(f *BookingForm) { f.Customer.FirstName = "" },
		"last name":   func(f *BookingForm) { f.Customer.LastName = "" },
		"phone":       func(f *BookingForm) { f.Customer.Phone = "" },
		"email":       func(f *BookingForm) { f.Customer.Email = "" },
		"bad email":   func(f *BookingForm) { f.Customer.Email = "a@b" },
		"street":      func(f *BookingForm) { f.Customer.Street = "" },
		"city":        func(f *BookingForm) { f.Customer.City = "" },
		"country":     func(f *BookingForm) { f.Customer.Country = "" },
		"nationality": func(f *BookingForm) { f.Customer.Nationality = "" },
		"passport":    func(f *BookingForm) { f.Customer.PassportNumber = "" },
		"payment":     func(f *BookingForm) { f.Customer.PaymentMethod = "" },
	}
	for name, mutate := range mutations {
		f := validForm()
		mutate(f)
		assert.False(t, IsFormValid(f), name)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.False(t, IsValidEmail("a@b"))
	assert.True(t, IsValidEmail("a@b.com"))
	assert.False(t, IsValidEmail("a b@c.com"))
	assert.False(t, IsValidEmail("@b.com"))
}

func TestBookingFormEndTime(t *testing.T) {
	f := validForm()
	f.Duration = "12"
	assert.Equal(t, f.StartTime.Add(12*time.Hour), f.EndTime())

	f.Duration = ""
	assert.True(t, f.EndTime().IsZero())
}
