// Package controller talks to the booking controller over its JSON API.
package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"walkindesk/internal/domain"
)

const (
	idempotencyHeader = "Idempotency-Key"
	maxErrorBody      = 64 << 10
)

type Client struct {
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	recordType string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithRecordType(recordType string) Option {
	return func(c *Client) { c.recordType = recordType }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{},
		timeout:    timeout,
		recordType: "Customer",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

// do performs one call and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		callsTotal.WithLabelValues(cl.op, outcome).Inc()
		callDuration.WithLabelValues(cl.op).Observe(time.Since(start).Seconds())
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", cl.op, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: res.StatusCode, Message: strings.TrimSpace(string(truncate(raw)))}
		}
		return fmt.Errorf("%s: %w: %v", cl.op, ErrUnexpectedResponse, err)
	}

	if res.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &APIError{Status: res.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", cl.op, err)
	}
	return nil
}

func truncate(b []byte) []byte {
	if len(b) > maxErrorBody {
		return b[:maxErrorBody]
	}
	return b
}

func (c *Client) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	var out []domain.Airport
	err := c.do(ctx, call{op: "list_airports", method: http.MethodGet, path: "/api/v1/airports"}, &out)
	return out, err
}

func (c *Client) GetInventory(ctx context.Context, airportID, date string) ([]domain.RoomInventoryItem, error) {
	var out []domain.RoomInventoryItem
	err := c.do(ctx, call{
		op:     "get_inventory",
		method: http.MethodGet,
		path:   "/api/v1/airports/" + url.PathEscape(airportID) + "/inventory",
		query:  url.Values{"date": {date}},
	}, &out)
	return out, err
}

// SearchCustomer returns nil, nil when the controller knows no such phone,
// whether it says so with a 404 or with null data.
func (c *Client) SearchCustomer(ctx context.Context, phone string) (*domain.Customer, error) {
	var out *domain.Customer
	err := c.do(ctx, call{
		op:     "search_customer",
		method: http.MethodGet,
		path:   "/api/v1/customers/search",
		query:  url.Values{"phone": {phone}},
	}, &out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil || out.ID == "" {
		return nil, nil
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, req domain.WalkInBookingRequest) (*domain.BookingRef, error) {
	cl := call{
		op:     "create_booking",
		method: http.MethodPost,
		path:   "/api/v1/walkin/bookings",
		body:   req,
	}
	if req.IdempotencyKey != "" {
		cl.headers = map[string]string{idempotencyHeader: req.IdempotencyKey}
	}

	var out domain.BookingRef
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBookings(ctx context.Context, roomID, date string) ([]domain.RoomBookingRecord, error) {
	var out []domain.RoomBookingRecord
	err := c.do(ctx, call{
		op:     "list_bookings",
		method: http.MethodGet,
		path:   "/api/v1/rooms/" + url.PathEscape(roomID) + "/bookings",
		query:  url.Values{"date": {date}},
	}, &out)
	return out, err
}

func (c *Client) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (string, error) {
	var out struct {
		DocumentID string `json:"document_id"`
	}
	err := c.do(ctx, call{
		op:     "update_status",
		method: http.MethodPatch,
		path:   "/api/v1/bookings/" + url.PathEscape(bookingID) + "/status",
		body:   map[string]string{"status": string(status)},
	}, &out)
	return out.DocumentID, err
}

func (c *Client) ExtendBooking(ctx context.Context, bookingID string, additionalHours int) error {
	return c.do(ctx, call{
		op:     "extend_booking",
		method: http.MethodPost,
		path:   "/api/v1/bookings/" + url.PathEscape(bookingID) + "/extend",
		body:   map[string]int{"additional_hours": additionalHours},
	}, nil)
}

func (c *Client) ToggleRoom(ctx context.Context, roomID string, isActive bool) error {
	return c.do(ctx, call{
		op:     "toggle_room",
		method: http.MethodPatch,
		path:   "/api/v1/rooms/" + url.PathEscape(roomID) + "/status",
		body:   map[string]bool{"is_active": isActive},
	}, nil)
}

// CustomerPicklists loads the nationality and id type options of the
// configured customer record type.
func (c *Client) CustomerPicklists(ctx context.Context) ([]domain.PicklistOption, []domain.PicklistOption, error) {
	var out struct {
		Nationality []domain.PicklistOption `json:"nationality"`
		IDType      []domain.PicklistOption `json:"id_type"`
	}
	err := c.do(ctx, call{
		op:     "customer_picklists",
		method: http.MethodGet,
		path:   "/api/v1/metadata/customer-picklists",
		query:  url.Values{"record_type": {c.recordType}},
	}, &out)
	return out.Nationality, out.IDType, err
}

// Ping checks that the controller answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListAirports(ctx)
	return err
}
