package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/phrazzld/scry-study/internal/platform/logger"
)

// subscription is a handler and the event types it receives. An empty type
// list receives every event.
type subscription struct {
	handler EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventEmitter dispatches events synchronously, in registration
// order, to the handlers subscribed to their type.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter returns an emitter with no handlers.
func NewInMemoryEventEmitter(log *slog.Logger) *InMemoryEventEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: log.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler subscribes handler to the given event types, or to all
// events when none are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{handler: handler, types: slices.Clone(types)})
	e.logger.Debug("registered event handler",
		slog.Int("handler_count", len(e.subs)),
		slog.Any("types", types))
}

// EmitEvent delivers event to every subscribed handler. A failing handler
// does not stop delivery; all handler errors are joined into the result.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("nil event")
	}

	e.mu.RLock()
	var targets []EventHandler
	for _, sub := range e.subs {
		if sub.wants(event.Type) {
			targets = append(targets, sub.handler)
		}
	}
	e.mu.RUnlock()

	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("session_id", event.SessionID.String()),
	)

	if len(targets) == 0 {
		log.Debug("no handler subscribed to event")
		return nil
	}

	var errs []error
	for i, handler := range targets {
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("event handler failed", slog.Int("handler_index", i), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}
