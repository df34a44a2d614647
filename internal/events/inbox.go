package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultInboxSize is the number of events an Inbox keeps per session.
const DefaultInboxSize = 50

// Inbox keeps the most recent events of each session until they are drained.
// Older events are dropped once a session holds size events.
type Inbox struct {
	mu     sync.Mutex
	size   int
	queues map[uuid.UUID][]*Event
}

// NewInbox creates an Inbox holding up to size events per session.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{
		size:   size,
		queues: make(map[uuid.UUID][]*Event),
	}
}

// HandleEvent implements EventHandler.
func (b *Inbox) HandleEvent(_ context.Context, event *Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := append(b.queues[event.SessionID], event)
	if len(q) > b.size {
		q = q[len(q)-b.size:]
	}
	b.queues[event.SessionID] = q
	return nil
}

// Drain returns and forgets the queued events of a session, oldest first.
func (b *Inbox) Drain(sessionID uuid.UUID) []*Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.queues[sessionID]
	delete(b.queues, sessionID)
	if q == nil {
		return []*Event{}
	}
	return q
}
