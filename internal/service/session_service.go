package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// SessionService manages anonymous learner sessions and their rewards.
type SessionService interface {
	// Create starts a new session at level 1.
	Create(ctx context.Context) (*session.State, error)

	// Get returns the current state of a session.
	Get(ctx context.Context, sessionID uuid.UUID) (*session.State, error)

	// Apply folds events into the session in order.
	Apply(ctx context.Context, sessionID uuid.UUID, evs ...session.Event) (*Outcome, error)

	// DailyChallenge completes today's challenge, at most once per UTC day.
	DailyChallenge(ctx context.Context, sessionID uuid.UUID) (*Outcome, error)

	// Recommendations suggests what to study next.
	Recommendations(ctx context.Context, sessionID uuid.UUID) ([]string, error)

	// DueCount returns how many of the session's cards are due now.
	DueCount(ctx context.Context, sessionID uuid.UUID) (int, error)
}

type sessionServiceImpl struct {
	db     Store
	rec    *recorder
	now    func() time.Time
	logger *slog.Logger
}

// NewSessionService creates a SessionService. The emitter may be nil, in
// which case notifications are only returned, never published.
func NewSessionService(
	db Store,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (SessionService, error) {
	if db == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "session_service"))

	return &sessionServiceImpl{
		db:     db,
		rec:    &recorder{emitter: emitter, logger: logger},
		now:    buildOptions(opts).now,
		logger: logger,
	}, nil
}

func (s *sessionServiceImpl) Create(ctx context.Context) (*session.State, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state := session.New(uuid.New(), s.now())
	if err := s.db.Stores().Sessions.Create(ctx, &state); err != nil {
		log.Error("failed to create session", slog.String("error", err.Error()))
		return nil, NewServiceError("session", "create", "failed to save session", err)
	}

	log.Info("session created", slog.String("session_id", state.ID.String()))
	return &state, nil
}

func (s *sessionServiceImpl) Get(ctx context.Context, sessionID uuid.UUID) (*session.State, error) {
	state, err := s.db.Stores().Sessions.Get(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, NewServiceError("session", "get", "failed to load session", err)
	}
	return state, nil
}

func (s *sessionServiceImpl) Apply(ctx context.Context, sessionID uuid.UUID, evs ...session.Event) (*Outcome, error) {
	outcome, err := s.rec.record(ctx, s.db, sessionID, s.now(), noChanges(evs...))
	if err != nil {
		return nil, wrapSessionErr("apply", err)
	}
	return outcome, nil
}

func (s *sessionServiceImpl) DailyChallenge(ctx context.Context, sessionID uuid.UUID) (*Outcome, error) {
	return s.Apply(ctx, sessionID, session.Simple(session.EventDailyChallenge))
}

func (s *sessionServiceImpl) Recommendations(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	due, err := s.DueCount(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return session.Recommendations(*state, due), nil
}

func (s *sessionServiceImpl) DueCount(ctx context.Context, sessionID uuid.UUID) (int, error) {
	return dueCount(ctx, s.db.Stores(), sessionID, s.now())
}

func dueCount(ctx context.Context, stores store.Stores, sessionID uuid.UUID, now time.Time) (int, error) {
	records, err := stores.Progress.ListBySession(ctx, sessionID)
	if err != nil {
		return 0, NewServiceError("session", "due_count", "failed to load review progress", err)
	}

	due := 0
	for _, p := range records {
		if p.IsDue(now) {
			due++
		}
	}
	return due, nil
}

// wrapSessionErr keeps the sentinels the API maps and wraps everything else.
func wrapSessionErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, session.ErrInvalidEvent):
		return err
	default:
		return NewServiceError("session", op, "failed to update session", err)
	}
}
