package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"walkindesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}
}

// Login issues a bearer token for a desk agent.
// @Summary		Desk agent login
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"username and password"
// @Success		200	{object}	LoginResponse
// @Failure		400	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		slog.Error("agent login failed", "username", req.Username, "error", err)
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to sign in")
		return
	}

	response.Success(c, http.StatusOK, res)
}
