package widget

import (
	"time"

	"walkindesk/internal/domain"
)

const (
	displayTimeLayout = "Jan 2, 03:04 PM"
	inputTimeLayout   = "2006-01-02T15:04"
)

type AirportOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Code  string `json:"code"`
}

type FormView struct {
	Room                  domain.RoomInventoryItem `json:"room"`
	Duration              string                   `json:"duration"`
	DurationOptions       []DurationOption         `json:"duration_options"`
	StartTime             string                   `json:"start_time"`
	FormattedStartTime    string                   `json:"formatted_start_time"`
	FormattedEndTime      string                   `json:"formatted_end_time"`
	Customer              domain.CustomerDraft     `json:"customer"`
	CustomerStatusMessage string                   `json:"customer_status_message"`
	Valid                 bool                     `json:"valid"`
}

type BookingsView struct {
	Room     domain.RoomInventoryItem `json:"room"`
	Bookings []BookingRow             `json:"bookings"`
}

// View is the render-ready projection of a State.
type View struct {
	Airports        []AirportOption            `json:"airports"`
	SelectedAirport string                     `json:"selected_airport"`
	SelectedDate    string                     `json:"selected_date"`
	Rooms           []domain.RoomInventoryItem `json:"rooms"`
	Loading         bool                       `json:"loading"`
	Submitting      bool                       `json:"submitting"`
	LoadingBookings bool                       `json:"loading_bookings"`
	Form            *FormView                  `json:"booking_form,omitempty"`
	Bookings        *BookingsView              `json:"room_bookings,omitempty"`

	TitleOptions         []string                `json:"title_options"`
	PaymentMethodOptions []string                `json:"payment_method_options"`
	NationalityOptions   []domain.PicklistOption `json:"nationality_options"`
	IDTypeOptions        []domain.PicklistOption `json:"id_type_options"`
}

func CustomerStatusMessage(d domain.CustomerDraft) string {
	if d.IsExisting {
		return "Existing customer found"
	}
	return "New customer - please fill details"
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayTimeLayout)
}

func (s State) View() View {
	v := View{
		Airports:             make([]AirportOption, 0, len(s.Airports)),
		SelectedAirport:      s.SelectedAirport,
		SelectedDate:         s.SelectedDate,
		Rooms:                s.Inventory,
		Loading:              s.Loading,
		Submitting:           s.Submitting,
		LoadingBookings:      s.LoadingBookings,
		TitleOptions:         TitleOptions,
		PaymentMethodOptions: PaymentMethodOptions,
		NationalityOptions:   s.NationalityOptions,
		IDTypeOptions:        s.IDTypeOptions,
	}
	if v.Rooms == nil {
		v.Rooms = []domain.RoomInventoryItem{}
	}
	for _, a := range s.Airports {
		v.Airports = append(v.Airports, AirportOption{Label: a.Label(), Value: a.ID, Code: a.Code})
	}

	if f := s.Form; f != nil {
		fv := &FormView{
			Room:                  f.Room,
			Duration:              f.Duration,
			DurationOptions:       DurationOptions(f.Room),
			FormattedStartTime:    formatDisplayTime(f.StartTime),
			FormattedEndTime:      formatDisplayTime(f.EndTime()),
			Customer:              f.Customer,
			CustomerStatusMessage: CustomerStatusMessage(f.Customer),
			Valid:                 IsFormValid(f),
		}
		if !f.StartTime.IsZero() {
			fv.StartTime = f.StartTime.Format(inputTimeLayout)
		}
		v.Form = fv
	}

	if b := s.Bookings; b != nil {
		rows := b.Bookings
		if rows == nil {
			rows = []BookingRow{}
		}
		v.Bookings = &BookingsView{Room: b.Room, Bookings: rows}
	}
	return v
}
