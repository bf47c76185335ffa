package sandbox

import (
	"errors"
	"log/slog"
	"net/http"

	"walkindesk/internal/domain"
	"walkindesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const IdempotencyHeader = "Idempotency-Key"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/airports", h.ListAirports)
	v1.GET("/airports/:id/inventory", h.GetInventory)
	v1.GET("/customers/search", h.SearchCustomer)
	v1.POST("/walkin/bookings", h.CreateWalkIn)
	v1.GET("/rooms/:id/bookings", h.ListRoomBookings)
	v1.PATCH("/rooms/:id/status", h.UpdateRoomStatus)
	v1.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
	v1.POST("/bookings/:id/extend", h.ExtendBooking)
	v1.GET("/metadata/customer-picklists", h.CustomerPicklists)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *ValidationError
	var terr *TransitionError
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message, verr.Fields)
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
	case errors.As(err, &terr):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", terr.Error())
	case errors.Is(err, ErrAirportNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Airport not found")
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrCustomerNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Customer not found")
	case errors.Is(err, ErrRoomUnavailable):
		response.Error(c, http.StatusConflict, "ROOM_UNAVAILABLE", "Room is not available for booking")
	case errors.Is(err, ErrRoomBooked):
		response.Error(c, http.StatusConflict, "ROOM_ALREADY_BOOKED", "Room is already booked for the selected time")
	case errors.Is(err, ErrRequestInProgress):
		response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "This booking is already being processed")
	default:
		_ = c.Error(err)
		slog.Error("sandbox request failed", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func (h *Handler) ListAirports(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, airports)
}

func (h *Handler) GetInventory(c *gin.Context) {
	items, err := h.service.Inventory(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) SearchCustomer(c *gin.Context) {
	customer, err := h.service.SearchCustomer(c.Request.Context(), c.Query("phone"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, customer)
}

// CreateWalkIn books a room for a walk-in customer.
// @Summary		Create walk-in booking
// @Tags		Walk-in
// @Param		Idempotency-Key	header	string	false	"client request key"
// @Param		request	body	domain.WalkInBookingRequest	true	"booking and customer details"
// @Success		201	{object}	domain.BookingRef
// @Failure		400	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Router		/walkin/bookings [POST]
func (h *Handler) CreateWalkIn(c *gin.Context) {
	var req domain.WalkInBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyHeader)

	out, replayed, err := h.service.CreateWalkIn(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	if replayed {
		c.Header("Idempotent-Replayed", "true")
		response.Success(c, http.StatusOK, out)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) ListRoomBookings(c *gin.Context) {
	records, err := h.service.ListRoomBookings(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

func (h *Handler) UpdateRoomStatus(c *gin.Context) {
	var req RoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetRoomActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, RoomStatusResponse{RoomID: c.Param("id"), IsActive: *req.IsActive})
}

func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	docID, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, UpdateStatusResponse{BookingID: c.Param("id"), Status: req.Status, DocumentID: docID})
}

func (h *Handler) ExtendBooking(c *gin.Context) {
	var req ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	end, err := h.service.Extend(c.Request.Context(), c.Param("id"), req.AdditionalHours)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ExtendResponse{BookingID: c.Param("id"), EndTime: end})
}

func (h *Handler) CustomerPicklists(c *gin.Context) {
	lists, err := h.service.CustomerPicklists(c.Request.Context(), c.Query("record_type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, lists)
}
