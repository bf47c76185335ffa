package desk

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"walkindesk/internal/modules/widget"
)

const DefaultIdleTTL = 30 * time.Minute

// WidgetFactory builds the widget behind a new session.
type WidgetFactory func(p widget.Presenter) *widget.Widget

type Session struct {
	ID        string
	Agent     string
	CreatedAt time.Time
	Widget    *widget.Widget

	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load()).UTC()
}

// SessionStore holds live widget sessions in memory.
type SessionStore struct {
	factory WidgetFactory
	hub     *Hub
	links   DocumentLinks
	ttl     time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore(factory WidgetFactory, hub *Hub, links DocumentLinks, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &SessionStore{
		factory:  factory,
		hub:      hub,
		links:    links,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (st *SessionStore) Create(agent string) *Session {
	id := uuid.NewString()
	now := st.now()
	s := &Session{
		ID:        id,
		Agent:     agent,
		CreatedAt: now.UTC(),
		Widget:    st.factory(&sessionPresenter{sessionID: id, hub: st.hub, links: st.links}),
	}
	s.touch(now)

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s
}

// Get returns the agent's live session and marks it used. Sessions owned by
// another agent look the same as missing ones.
func (st *SessionStore) Get(id, agent string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok || s.Agent != agent {
		return nil, ErrSessionNotFound
	}

	now := st.now()
	if st.expired(s, now) {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}
	s.touch(now)
	return s, nil
}

func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		st.hub.Drop(id)
	}
	return ok
}

func (st *SessionStore) expired(s *Session, now time.Time) bool {
	return now.Sub(s.LastSeen()) > st.ttl
}

// Sweep removes idle sessions and returns how many went.
func (st *SessionStore) Sweep() int {
	now := st.now()
	var stale []string

	st.mu.Lock()
	for id, s := range st.sessions {
		if st.expired(s, now) {
			stale = append(stale, id)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, id := range stale {
		st.hub.Drop(id)
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("expired desk sessions removed", "count", n)
			}
		}
	}
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
