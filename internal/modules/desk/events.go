package desk

import "walkindesk/internal/modules/widget"

const (
	EventSnapshot     = "snapshot"
	EventNotification = "notification"
	EventDocument     = "document"
	EventPong         = "pong"
	EventError        = "error"
)

// Event is pushed to a session's websocket.
type Event struct {
	Type         string               `json:"type"`
	View         *widget.View         `json:"view,omitempty"`
	Notification *widget.Notification `json:"notification,omitempty"`
	Document     *DocumentLink        `json:"document,omitempty"`
	Error        *ErrorPayload        `json:"error,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type clientMessage struct {
	Type string `json:"type"`
}

func snapshotEvent(s widget.State) Event {
	v := s.View()
	return Event{Type: EventSnapshot, View: &v}
}
