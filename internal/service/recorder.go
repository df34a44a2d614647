package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// Store is the persistence the services run against. The memory, SQLite
// and PostgreSQL backends all satisfy it.
type Store interface {
	store.Transactor

	// Stores returns stores that run outside any transaction.
	Stores() store.Stores
}

// Outcome is the result of folding learning events into a session.
type Outcome struct {
	Session       *session.State         `json:"session"`
	Notifications []session.Notification `json:"notifications"`
}

// recorder applies session events inside a transaction and publishes the
// resulting notifications once the transaction has committed.
type recorder struct {
	emitter events.EventEmitter
	logger  *slog.Logger
}

// apply folds evs into the stored session and saves it using tx.
func (r *recorder) apply(
	ctx context.Context,
	tx store.Stores,
	sessionID uuid.UUID,
	now time.Time,
	evs ...session.Event,
) (*Outcome, error) {
	state, err := tx.Sessions.Get(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	next := *state
	notes := []session.Notification{}
	for _, e := range evs {
		var produced []session.Notification
		next, produced, err = session.Apply(next, e, now)
		if err != nil {
			return nil, err
		}
		notes = append(notes, produced...)
	}

	if err := tx.Sessions.Update(ctx, &next); err != nil {
		return nil, err
	}

	return &Outcome{Session: &next, Notifications: notes}, nil
}

// publish emits one notification event per notification. Failures are
// logged; the session change they describe is already committed.
func (r *recorder) publish(ctx context.Context, sessionID uuid.UUID, notes []session.Notification) {
	if r.emitter == nil {
		return
	}
	for _, n := range notes {
		event, err := events.NewEvent(events.TypeNotification, sessionID, n)
		if err != nil {
			r.logger.Error("failed to build notification event", slog.String("error", err.Error()))
			continue
		}
		if err := r.emitter.EmitEvent(ctx, event); err != nil {
			r.logger.Warn("failed to publish notification",
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
	}
}

// record runs fn and the session events in one transaction, then publishes
// the notifications.
func (r *recorder) record(
	ctx context.Context,
	db store.Transactor,
	sessionID uuid.UUID,
	now time.Time,
	fn func(ctx context.Context, tx store.Stores) ([]session.Event, error),
) (*Outcome, error) {
	var outcome *Outcome
	err := db.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		evs, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		outcome, err = r.apply(ctx, tx, sessionID, now, evs...)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.publish(ctx, sessionID, outcome.Notifications)
	return outcome, nil
}

type options struct {
	now func() time.Time
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now as the service clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
