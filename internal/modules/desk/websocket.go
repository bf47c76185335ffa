package desk

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"walkindesk/internal/pkg/jwt"
	"walkindesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

// WebSocketHandler pushes session snapshots, notifications and documents to
// the agent's browser.
type WebSocketHandler struct {
	sessions *SessionStore
	hub      *Hub
	jwt      *jwt.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts same-host upgrades and those from
// allowedOrigins.
func NewWebSocketHandler(sessions *SessionStore, hub *Hub, jwtService *jwt.Service, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		hub:      hub,
		jwt:      jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, origin) {
					return true
				}
				return origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

// RegisterRoutes mounts the socket on a public group; browsers cannot set
// headers on upgrades so the token rides in the query string.
func (h *WebSocketHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/ws/sessions/:id", h.HandleWebSocket)
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	session, err := h.sessions.Get(c.Param("id"), claims.Agent)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "session_id", session.ID, "error", err)
		return
	}

	client := h.hub.Register(session.ID, conn)
	defer h.hub.Unregister(session.ID, client)

	if err := client.write(snapshotEvent(session.Widget.State())); err != nil {
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(client, done)

	h.readLoop(session, client)
}

func (h *WebSocketHandler) pingLoop(client *wsClient, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := client.ping(); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) readLoop(session *Session, client *wsClient) {
	for {
		var msg clientMessage
		if err := client.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read failed", "session_id", session.ID, "error", err)
			}
			return
		}

		var out Event
		switch msg.Type {
		case "ping":
			out = Event{Type: EventPong}
		case "snapshot":
			out = snapshotEvent(session.Widget.State())
		default:
			out = Event{Type: EventError, Error: &ErrorPayload{Code: "UNKNOWN_MESSAGE", Message: "Unknown message type"}}
		}
		if err := client.write(out); err != nil {
			return
		}
	}
}
