package desk

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"walkindesk/internal/middleware"
	"walkindesk/internal/modules/widget"
	"walkindesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	sessions *SessionStore
}

func NewHandler(sessions *SessionStore) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes mounts the session endpoints; the group must run JWTAuth.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/sessions", h.CreateSession)

	s := protected.Group("/sessions/:id")
	{
		s.GET("", h.GetSession)
		s.DELETE("", h.DeleteSession)
		s.PUT("/airport", h.SelectAirport)
		s.PUT("/date", h.SelectDate)
		s.POST("/inventory/refresh", h.RefreshInventory)

		s.POST("/rooms/:roomId/select", h.SelectRoom)
		s.POST("/rooms/:roomId/toggle", h.ToggleRoom)
		s.POST("/rooms/:roomId/bookings", h.ViewBookings)
		s.DELETE("/bookings", h.CloseBookings)
		s.POST("/bookings/:bookingId/actions", h.BookingAction)

		s.PUT("/form/duration", h.SetDuration)
		s.PUT("/form/start-time", h.SetStartTime)
		s.PUT("/form/phone", h.ChangePhone)
		s.PATCH("/form/customer", h.SetCustomerField)
		s.POST("/form/submit", h.SubmitForm)
		s.DELETE("/form", h.CloseForm)
	}
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	s, err := h.sessions.Get(c.Param("id"), middleware.Agent(c))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
		return nil, false
	}
	return s, true
}

// run applies op to the session's widget and answers with the resulting
// snapshot plus whatever the operation surfaced to the agent.
func (h *Handler) run(c *gin.Context, s *Session, status int, op func(ctx context.Context, w *widget.Widget) (widget.State, error)) {
	ctx, fx := withEffects(c.Request.Context())
	state, err := op(ctx, s.Widget)

	notifications, documents := fx.snapshot()
	body := SessionResponse{
		SessionID:     s.ID,
		LiveUpdates:   h.sessions.hub.IsOnline(s.ID),
		View:          state.View(),
		Notifications: notifications,
		Documents:     documents,
	}
	h.sessions.hub.Send(s.ID, snapshotEvent(state))

	if err != nil {
		code, name := classify(err)
		if code >= http.StatusInternalServerError {
			_ = c.Error(err)
			slog.Warn("desk operation failed", "session_id", s.ID, "path", c.FullPath(), "error", err)
		}
		response.ErrorWithDetails(c, code, name, errorMessage(err), body)
		return
	}
	response.Success(c, status, body)
}

type userMessager interface {
	UserMessage() string
}

func errorMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}

func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

func (h *Handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create(middleware.Agent(c))

	// Init failures are reported through notifications; the session is
	// still usable.
	h.run(c, s, http.StatusCreated, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		st, err := w.Init(ctx)
		if err != nil {
			slog.Warn("desk session init failed", "session_id", s.ID, "error", err)
		}
		return st, nil
	})
}

func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.run(c, s, http.StatusOK, func(_ context.Context, w *widget.Widget) (widget.State, error) {
		return w.State(), nil
	})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.sessions.Delete(s.ID)
	c.Status(http.StatusNoContent)
}

func (h *Handler) SelectAirport(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SelectAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.SelectAirport(ctx, req.AirportID)
	})
}

func (h *Handler) SelectDate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SelectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.SelectDate(ctx, req.Date)
	})
}

func (h *Handler) RefreshInventory(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.LoadInventory(ctx)
	})
}

func (h *Handler) SelectRoom(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	roomID := c.Param("roomId")
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.SelectRoom(ctx, roomID)
	})
}

func (h *Handler) ToggleRoom(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req ToggleRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	roomID := c.Param("roomId")
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.ToggleRoom(ctx, roomID, *req.IsActive)
	})
}

func (h *Handler) ViewBookings(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	roomID := c.Param("roomId")
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.ViewBookings(ctx, roomID)
	})
}

func (h *Handler) CloseBookings(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.run(c, s, http.StatusOK, func(_ context.Context, w *widget.Widget) (widget.State, error) {
		return w.CloseBookings(), nil
	})
}

func (h *Handler) BookingAction(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req BookingActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	action, err := widget.ParseAction(req.Action)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	bookingID := c.Param("bookingId")
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.BookingAction(ctx, bookingID, action, req.AdditionalHours)
	})
}

func (h *Handler) SetDuration(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SetDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.run(c, s, http.StatusOK, func(_ context.Context, w *widget.Widget) (widget.State, error) {
		return w.SetDuration(req.Duration)
	})
}

func (h *Handler) SetStartTime(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SetStartTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.run(c, s, http.StatusOK, func(_ context.Context, w *widget.Widget) (widget.State, error) {
		return w.SetStartTime(req.StartTime)
	})
}

func (h *Handler) ChangePhone(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req ChangePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.ChangePhone(ctx, req.Phone)
	})
}

func (h *Handler) SetCustomerField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SetCustomerFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.SetCustomerField(ctx, req.Field, req.Value)
	})
}

func (h *Handler) SubmitForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.run(c, s, http.StatusOK, func(ctx context.Context, w *widget.Widget) (widget.State, error) {
		return w.CreateBooking(ctx)
	})
}

func (h *Handler) CloseForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.run(c, s, http.StatusOK, func(_ context.Context, w *widget.Widget) (widget.State, error) {
		return w.CloseForm(), nil
	})
}
