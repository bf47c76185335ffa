package sandbox

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkindesk/internal/domain"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)

	r := gin.New()
	NewHandler(env.svc).RegisterRoutes(r.Group("/api/v1"))
	return r, env
}

func doJSONRequest(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func TestHandler_AirportsAndInventory(t *testing.T) {
	r, env := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodGet, "/api/v1/airports", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var airports []domain.Airport
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &airports))
	assert.Len(t, airports, 3)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/airports/"+env.fx.Delhi.ID+"/inventory?date=2024-06-01", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []domain.RoomInventoryItem
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &items))
	assert.Len(t, items, 4)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/airports/nope/inventory?date=2024-06-01", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_CreateWalkIn(t *testing.T) {
	r, env := setupTestRouter(t)
	body := walkInRequest(env.fx.Rooms["101"].ID, env.fx.Delhi.ID, "6", "2024-06-01T10:15:00.000Z", "9123456780")
	headers := map[string]string{IdempotencyHeader: "abc-123"}

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/walkin/bookings", body, headers)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var first domain.BookingRef
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &first))

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/walkin/bookings", body, headers)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Header().Get("Idempotent-Replayed"))
	var second domain.BookingRef
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &second))
	assert.Equal(t, first.BookingID, second.BookingID)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/walkin/bookings", body, map[string]string{IdempotencyHeader: "other"})
	require.Equal(t, http.StatusConflict, rr.Code)
	e := decode(t, rr)
	assert.Equal(t, "ROOM_ALREADY_BOOKED", e.Error.Code)
	assert.Equal(t, "Room is already booked for the selected time", e.Error.Message)
}

func TestHandler_CreateWalkIn_Validation(t *testing.T) {
	r, env := setupTestRouter(t)
	body := walkInRequest(env.fx.Rooms["101"].ID, env.fx.Delhi.ID, "6", "2024-06-01T10:15:00Z", "")

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/walkin/bookings", body, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rr).Error.Code)
	assert.Contains(t, rr.Body.String(), "Phone")
}

func TestHandler_BookingLifecycle(t *testing.T) {
	r, env := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPatch, "/api/v1/bookings/"+env.fx.InProgressID+"/status", map[string]string{"status": "Completed"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res UpdateStatusResponse
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &res))
	assert.NotEmpty(t, res.DocumentID)

	rr = doJSONRequest(r, http.MethodPatch, "/api/v1/bookings/"+env.fx.InProgressID+"/status", map[string]string{"status": "In Progress"}, nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", decode(t, rr).Error.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/bookings/"+env.fx.InProgressID+"/extend", map[string]int{"additional_hours": 1}, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Only in-progress bookings can be extended", decode(t, rr).Error.Message)

	rr = doJSONRequest(r, http.MethodPatch, "/api/v1/bookings/missing/status", map[string]string{"status": "Cancelled"}, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_RoomStatusAndBookings(t *testing.T) {
	r, env := setupTestRouter(t)
	roomID := env.fx.Rooms["101"].ID

	rr := doJSONRequest(r, http.MethodPatch, "/api/v1/rooms/"+roomID+"/status", map[string]bool{"is_active": false}, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(r, http.MethodPatch, "/api/v1/rooms/"+roomID+"/status", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/rooms/"+roomID+"/bookings?date=2024-06-01", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var records []domain.RoomBookingRecord
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, env.fx.UpcomingID, records[0].ID)
}

func TestHandler_CustomerSearchAndPicklists(t *testing.T) {
	r, env := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodGet, "/api/v1/customers/search?phone="+env.fx.Customer.Phone, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var c domain.Customer
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &c))
	assert.Equal(t, env.fx.Customer.ID, c.ID)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/customers/search?phone=1111111111", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/metadata/customer-picklists?record_type=Customer", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var lists CustomerPicklists
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &lists))
	assert.Len(t, lists.IDType, 3)
}
