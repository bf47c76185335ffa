package desk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkindesk/internal/controller"
	"walkindesk/internal/database"
	"walkindesk/internal/domain"
	"walkindesk/internal/idempotency"
	"walkindesk/internal/middleware"
	"walkindesk/internal/modules/sandbox"
	"walkindesk/internal/modules/widget"
	"walkindesk/internal/pkg/jwt"
	"walkindesk/internal/pkg/response"
)

var testNow = time.Date(2024, 6, 1, 10, 7, 0, 0, time.UTC)

type deskEnv struct {
	router   *gin.Engine
	sessions *SessionStore
	fx       *sandbox.Fixture
	jwt      *jwt.Service
	token    string
}

// newDeskEnv runs the desk API against a seeded sandbox controller over HTTP.
func newDeskEnv(t *testing.T) *deskEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:desk_%s?mode=memory&cache=shared&_time_format=sqlite", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	fx, err := sandbox.Seed(context.Background(), db, testNow)
	require.NoError(t, err)

	svc := sandbox.NewServiceFromDB(db, idempotency.NewMemoryStore(), sandbox.LogPublisher{}, sandbox.DefaultHandoffBuffer).
		WithClock(func() time.Time { return testNow })
	sr := gin.New()
	sandbox.NewHandler(svc).RegisterRoutes(sr.Group("/api/v1"))
	srv := httptest.NewServer(sr)
	t.Cleanup(srv.Close)

	client := controller.New(srv.URL, 5*time.Second)
	factory := func(p widget.Presenter) *widget.Widget {
		return widget.New(client, p,
			widget.WithClock(func() time.Time { return testNow }),
			widget.WithPicklists(client),
		)
	}

	hub := NewHub()
	t.Cleanup(hub.Close)
	sessions := NewSessionStore(factory, hub, NewDocumentLinks("/registration-form/%s", "/documents/%s/download"), time.Hour)
	jwtService := jwt.New("desk-test-secret", time.Hour)

	r := gin.New()
	v1 := r.Group("/api/v1")
	NewWebSocketHandler(sessions, hub, jwtService, nil).RegisterRoutes(v1)
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	NewHandler(sessions).RegisterRoutes(protected)

	token, err := jwtService.GenerateToken("agent1")
	require.NoError(t, err)

	return &deskEnv{router: r, sessions: sessions, fx: fx, jwt: jwtService, token: token}
}

func (e *deskEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return e.doAs(t, e.token, method, path, body)
}

func (e *deskEnv) doAs(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var env response.Envelope[SessionResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	return env.Data
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) (response.ErrorBody, SessionResponse) {
	t.Helper()
	var env response.Envelope[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	var body SessionResponse
	if len(env.Error.Details) > 0 {
		require.NoError(t, json.Unmarshal(env.Error.Details, &body))
	}
	return *env.Error, body
}

func (e *deskEnv) openSession(t *testing.T) SessionResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeSession(t, w)
}

func roomsByNumber(v widget.View) map[string]domain.RoomInventoryItem {
	out := make(map[string]domain.RoomInventoryItem, len(v.Rooms))
	for _, r := range v.Rooms {
		out[r.RoomNumber] = r
	}
	return out
}

func TestDesk_RequiresToken(t *testing.T) {
	e := newDeskEnv(t)

	w := e.doAs(t, "", http.MethodPost, "/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDesk_CreateSessionLoadsDelhiInventory(t *testing.T) {
	e := newDeskEnv(t)

	s := e.openSession(t)
	require.NotEmpty(t, s.SessionID)
	assert.Equal(t, e.fx.Delhi.ID, s.View.SelectedAirport)
	assert.Equal(t, "2024-06-01", s.View.SelectedDate)
	assert.Len(t, s.View.Airports, 3)
	assert.Empty(t, s.Notifications)

	rooms := roomsByNumber(s.View)
	require.Len(t, rooms, 4)
	assert.Equal(t, domain.RoomAvailable, rooms["101"].Status)
	assert.Equal(t, domain.RoomOccupied, rooms["102"].Status)
	assert.Equal(t, domain.RoomMaintenance, rooms["104"].Status)
	assert.NotEmpty(t, s.View.NationalityOptions)
}

func TestDesk_SessionsBelongToTheirAgent(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)

	other, err := e.jwt.GenerateToken("agent2")
	require.NoError(t, err)

	w := e.doAs(t, other, http.MethodGet, "/sessions/"+s.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/sessions/"+s.SessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDesk_WalkInBookingFlow(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)
	base := "/sessions/" + s.SessionID
	room := e.fx.Rooms["101"]

	w := e.do(t, http.MethodPost, base+"/rooms/"+room.ID+"/select", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	form := decodeSession(t, w).View.Form
	require.NotNil(t, form)
	assert.Equal(t, room.ID, form.Room.RoomID)
	assert.Equal(t, "2024-06-01T10:15", form.StartTime)

	w = e.do(t, http.MethodPut, base+"/form/duration", SetDurationRequest{Duration: "6"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPut, base+"/form/phone", ChangePhoneRequest{Phone: e.fx.Customer.Phone})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	form = decodeSession(t, w).View.Form
	require.NotNil(t, form)
	assert.True(t, form.Customer.IsExisting)
	assert.Equal(t, "Existing customer found", form.CustomerStatusMessage)

	fields := map[string]string{
		"firstName":      "Asha",
		"lastName":       "Rao",
		"email":          "asha@example.com",
		"street":         "12 MG Road",
		"city":           "Delhi",
		"nationality":    "Indian",
		"passportNumber": "P1234567",
		"paymentMethod":  "UPI",
	}
	for field, value := range fields {
		w = e.do(t, http.MethodPatch, base+"/form/customer", SetCustomerFieldRequest{Field: field, Value: value})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.True(t, decodeSession(t, w).View.Form.Valid)

	w = e.do(t, http.MethodPost, base+"/form/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeSession(t, w)
	assert.Nil(t, out.View.Form)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, widget.VariantSuccess, out.Notifications[0].Variant)

	w = e.do(t, http.MethodPost, base+"/rooms/"+room.ID+"/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bookings := decodeSession(t, w).View.Bookings
	require.NotNil(t, bookings)
	assert.Len(t, bookings.Bookings, 2)
}

func TestDesk_SubmitInvalidFormIsValidationError(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)
	base := "/sessions/" + s.SessionID

	w := e.do(t, http.MethodPost, base+"/form/submit", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body, out := decodeFailure(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "Please fill all required fields", out.Notifications[0].Message)
}

func TestDesk_MaintenanceRoomCannotBeSelected(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)

	w := e.do(t, http.MethodPost, "/sessions/"+s.SessionID+"/rooms/"+e.fx.Rooms["104"].ID+"/select", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	body, out := decodeFailure(t, w)
	assert.Equal(t, "ROOM_UNAVAILABLE", body.Code)
	assert.Nil(t, out.View.Form)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, widget.VariantWarning, out.Notifications[0].Variant)
}

func TestDesk_CheckOutOpensDownload(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)
	base := "/sessions/" + s.SessionID

	w := e.do(t, http.MethodPost, base+"/rooms/"+e.fx.Rooms["102"].ID+"/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, base+"/bookings/"+e.fx.InProgressID+"/actions", BookingActionRequest{Action: "checkin"})
	require.Equal(t, http.StatusConflict, w.Code)
	body, _ := decodeFailure(t, w)
	assert.Equal(t, "ACTION_NOT_PERMITTED", body.Code)

	w = e.do(t, http.MethodPost, base+"/bookings/"+e.fx.InProgressID+"/actions", BookingActionRequest{Action: "checkout"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeSession(t, w)
	require.Len(t, out.Documents, 1)
	assert.Equal(t, widget.DocumentDownload, out.Documents[0].Kind)
	assert.True(t, strings.HasPrefix(out.Documents[0].URL, "/documents/"))
	assert.True(t, strings.HasSuffix(out.Documents[0].URL, "/download"))

	require.NotNil(t, out.View.Bookings)
	require.Len(t, out.View.Bookings.Bookings, 1)
	assert.Equal(t, domain.BookingCompleted, out.View.Bookings.Bookings[0].Status)
}

func TestDesk_CheckInOpensRegistrationForm(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)
	base := "/sessions/" + s.SessionID

	w := e.do(t, http.MethodPost, base+"/rooms/"+e.fx.Rooms["101"].ID+"/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, base+"/bookings/"+e.fx.UpcomingID+"/actions", BookingActionRequest{Action: "checkin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeSession(t, w)
	require.Len(t, out.Documents, 1)
	assert.Equal(t, "/registration-form/"+e.fx.UpcomingID, out.Documents[0].URL)

	w = e.do(t, http.MethodDelete, base+"/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeSession(t, w).View.Bookings)
}

func TestDesk_UnknownActionAndField(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)
	base := "/sessions/" + s.SessionID

	w := e.do(t, http.MethodPost, base+"/bookings/b-1/actions", BookingActionRequest{Action: "teleport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPatch, base+"/form/customer", SetCustomerFieldRequest{Field: "email", Value: "x@y.com"})
	require.Equal(t, http.StatusConflict, w.Code)
	body, _ := decodeFailure(t, w)
	assert.Equal(t, "INVALID_STATE", body.Code)
}

func TestDesk_ToggleRoom(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)
	room := e.fx.Rooms["101"]

	off := false
	w := e.do(t, http.MethodPost, "/sessions/"+s.SessionID+"/rooms/"+room.ID+"/toggle", ToggleRoomRequest{IsActive: &off})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, roomsByNumber(decodeSession(t, w).View)["101"].IsActive)

	w = e.do(t, http.MethodPost, "/sessions/"+s.SessionID+"/rooms/"+room.ID+"/toggle", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDesk_DeleteSession(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)

	w := e.do(t, http.MethodDelete, "/sessions/"+s.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodGet, "/sessions/"+s.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, e.sessions.Len())
}

func TestDesk_WebSocketPushesSnapshots(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)
	assert.False(t, s.LiveUpdates)

	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/sessions/" + s.SessionID + "?token=" + e.token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventSnapshot, ev.Type)
	require.NotNil(t, ev.View)
	assert.Equal(t, e.fx.Delhi.ID, ev.View.SelectedAirport)

	got := e.do(t, http.MethodGet, "/sessions/"+s.SessionID, nil)
	require.Equal(t, http.StatusOK, got.Code, got.Body.String())
	assert.True(t, decodeSession(t, got).LiveUpdates)
	ev = Event{}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventSnapshot, ev.Type)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "ping"}))
	ev = Event{}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventPong, ev.Type)

	w := e.do(t, http.MethodPut, "/sessions/"+s.SessionID+"/airport", SelectAirportRequest{AirportID: e.fx.Mumbai.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ev = Event{}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventSnapshot, ev.Type)
	require.NotNil(t, ev.View)
	assert.Equal(t, e.fx.Mumbai.ID, ev.View.SelectedAirport)
	assert.Len(t, ev.View.Rooms, 2)
}

func TestDesk_WebSocketRejectsBadToken(t *testing.T) {
	e := newDeskEnv(t)
	s := e.openSession(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws/sessions/"+s.SessionID+"?token=nope", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
