package desk

import (
	"context"
	"sync"

	"walkindesk/internal/modules/widget"
)

// effects collects what one HTTP request made the widget show.
type effects struct {
	mu            sync.Mutex
	notifications []widget.Notification
	documents     []DocumentLink
}

type effectsKey struct{}

func withEffects(ctx context.Context) (context.Context, *effects) {
	e := &effects{
		notifications: []widget.Notification{},
		documents:     []DocumentLink{},
	}
	return context.WithValue(ctx, effectsKey{}, e), e
}

func effectsFrom(ctx context.Context) *effects {
	e, _ := ctx.Value(effectsKey{}).(*effects)
	return e
}

func (e *effects) snapshot() ([]widget.Notification, []DocumentLink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]widget.Notification(nil), e.notifications...), append([]DocumentLink(nil), e.documents...)
}

// sessionPresenter hands widget side effects to the current request and to
// the session's websocket.
type sessionPresenter struct {
	sessionID string
	hub       *Hub
	links     DocumentLinks
}

func (p *sessionPresenter) Notify(ctx context.Context, n widget.Notification) {
	if e := effectsFrom(ctx); e != nil {
		e.mu.Lock()
		e.notifications = append(e.notifications, n)
		e.mu.Unlock()
	}
	p.hub.Send(p.sessionID, Event{Type: EventNotification, Notification: &n})
}

func (p *sessionPresenter) OpenDocument(ctx context.Context, d widget.Document) {
	link := p.links.Link(d)
	if e := effectsFrom(ctx); e != nil {
		e.mu.Lock()
		e.documents = append(e.documents, link)
		e.mu.Unlock()
	}
	p.hub.Send(p.sessionID, Event{Type: EventDocument, Document: &link})
}
