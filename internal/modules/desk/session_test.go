package desk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkindesk/internal/controller"
	"walkindesk/internal/modules/widget"
)

type nopBackend struct{ widget.Backend }

func newTestStore(now *time.Time) *SessionStore {
	factory := func(p widget.Presenter) *widget.Widget {
		return widget.New(nopBackend{}, p)
	}
	st := NewSessionStore(factory, NewHub(), NewDocumentLinks("/registration-form/%s", "/documents/%s/download"), time.Minute)
	st.now = func() time.Time { return *now }
	return st
}

func TestSessionStore_GetChecksOwnerAndIdleTTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	st := newTestStore(&now)

	s := st.Create("agent1")
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID, "agent1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get(s.ID, "agent2")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = st.Get("missing", "agent1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	now = now.Add(50 * time.Second)
	_, err = st.Get(s.ID, "agent1")
	require.NoError(t, err, "use within the ttl keeps the session alive")

	now = now.Add(61 * time.Second)
	_, err = st.Get(s.ID, "agent1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, st.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	st := newTestStore(&now)

	old := st.Create("agent1")
	now = now.Add(45 * time.Second)
	fresh := st.Create("agent1")

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, st.Sweep())

	_, err := st.Get(old.ID, "agent1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get(fresh.ID, "agent1")
	assert.NoError(t, err)
}

func TestSessionStore_RunStopsWithContext(t *testing.T) {
	now := time.Now()
	st := newTestStore(&now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	now := time.Now()
	st := newTestStore(&now)
	s := st.Create("agent1")

	assert.True(t, st.Delete(s.ID))
	assert.False(t, st.Delete(s.ID))
	_, err := st.Get(s.ID, "agent1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDocumentLinks(t *testing.T) {
	links := NewDocumentLinks("https://desk.example.com/registration-form/%s", "/documents/%s/download")

	reg := links.Link(widget.Document{Kind: widget.DocumentRegistrationForm, ID: "b-1"})
	assert.Equal(t, "https://desk.example.com/registration-form/b-1", reg.URL)
	assert.Equal(t, widget.DocumentRegistrationForm, reg.Kind)

	dl := links.Link(widget.Document{Kind: widget.DocumentDownload, ID: "doc 7/x"})
	assert.Equal(t, "/documents/doc%207%2Fx/download", dl.URL)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{widget.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("set field: %w", widget.ErrUnknownField), http.StatusBadRequest, "VALIDATION_ERROR"},
		{widget.ErrRoomNotFound, http.StatusNotFound, "NOT_FOUND"},
		{widget.ErrRoomMaintenance, http.StatusConflict, "ROOM_UNAVAILABLE"},
		{widget.ErrNoBookingForm, http.StatusConflict, "INVALID_STATE"},
		{widget.ErrActionNotPermitted, http.StatusConflict, "ACTION_NOT_PERMITTED"},
		{widget.ErrBusy, http.StatusConflict, "REQUEST_IN_PROGRESS"},
		{fmt.Errorf("load inventory: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "CONTROLLER_TIMEOUT"},
		{&controller.APIError{Status: 409, Code: "ROOM_ALREADY_BOOKED", Message: "Room is already booked"}, http.StatusBadGateway, "CONTROLLER_ERROR"},
		{errors.New("boom"), http.StatusBadGateway, "CONTROLLER_ERROR"},
	}
	for _, tc := range cases {
		status, code := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestErrorMessage_PrefersControllerMessage(t *testing.T) {
	err := fmt.Errorf("create booking: %w", &controller.APIError{Status: 409, Code: "ROOM_ALREADY_BOOKED", Message: "Room is already booked for the selected time"})
	assert.Equal(t, "Room is already booked for the selected time", errorMessage(err))
	assert.Equal(t, "boom", errorMessage(errors.New("boom")))
}
