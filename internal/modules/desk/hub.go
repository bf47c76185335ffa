package desk

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// wsClient serializes writes; gorilla connections allow one writer at a time.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps at most one live websocket per session. A new connection for
// the same session replaces the old one.
type Hub struct {
	connections map[string]*wsClient
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{connections: make(map[string]*wsClient)}
}

func (h *Hub) Register(sessionID string, conn *websocket.Conn) *wsClient {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[sessionID]; exists && old != nil {
		_ = old.conn.Close()
	}

	c := &wsClient{conn: conn}
	h.connections[sessionID] = c
	return c
}

// Unregister drops c if it is still the session's connection.
func (h *Hub) Unregister(sessionID string, c *wsClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, exists := h.connections[sessionID]; exists && cur == c {
		_ = cur.conn.Close()
		delete(h.connections, sessionID)
	}
}

// Drop closes whatever connection the session has.
func (h *Hub) Drop(sessionID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.connections[sessionID]; exists {
		_ = c.conn.Close()
		delete(h.connections, sessionID)
	}
}

func (h *Hub) Send(sessionID string, event Event) bool {
	if h == nil {
		return false
	}
	h.mutex.RLock()
	c, exists := h.connections[sessionID]
	h.mutex.RUnlock()

	if !exists || c == nil {
		return false
	}

	if err := c.write(event); err != nil {
		h.Unregister(sessionID, c)
		return false
	}
	return true
}

func (h *Hub) IsOnline(sessionID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[sessionID]
	return exists
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, c := range h.connections {
		_ = c.conn.Close()
		delete(h.connections, id)
	}
}
