package domain

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

const RoomTypeShowerOnly = "Shower Only"

// RoomInventoryItem is one tile of the room grid for an (airport, date) query.
type RoomInventoryItem struct {
	RoomID            string     `json:"room_id"`
	RoomNumber        string     `json:"room_number,omitempty"`
	RoomType          string     `json:"room_type"`
	Status            RoomStatus `json:"status"`
	NextAvailableTime *time.Time `json:"next_available_time,omitempty"`
	IsActive          bool       `json:"is_active"`
}

func (r RoomInventoryItem) IsShowerOnly() bool {
	return r.RoomType == RoomTypeShowerOnly
}

// Room is a bookable room as stored by the controller.
type Room struct {
	ID          string
	AirportID   string
	RoomNumber  string
	RoomType    string
	Maintenance bool
	IsActive    bool
}

// OutOfService rooms cannot take new bookings.
func (r Room) OutOfService() bool {
	return r.Maintenance || !r.IsActive
}
