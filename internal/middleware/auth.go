package middleware

import (
	"net/http"
	"strings"

	"walkindesk/internal/pkg/jwt"
	"walkindesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AgentKey is the gin context key holding the signed-in desk agent.
const AgentKey = "agent"

func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(AgentKey, claims.Agent)
		c.Next()
	}
}

func Agent(c *gin.Context) string {
	return c.GetString(AgentKey)
}
