package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// encodeCollections serializes the badge list and achievement map.
func encodeCollections(state *session.State) (badges, achievements []byte, err error) {
	list := state.Badges
	if list == nil {
		list = []string{}
	}
	if badges, err = json.Marshal(list); err != nil {
		return nil, nil, fmt.Errorf("failed to encode badges: %w", err)
	}
	if achievements, err = json.Marshal(state.Achievements); err != nil {
		return nil, nil, fmt.Errorf("failed to encode achievements: %w", err)
	}
	return badges, achievements, nil
}

// Create implements store.SessionStore.Create.
func (s *PostgresSessionStore) Create(ctx context.Context, state *session.State) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if state.ID == uuid.Nil {
		return store.NewStoreError("session", "create", "empty session ID", store.ErrInvalidEntity)
	}
	badges, achievements, err := encodeCollections(state)
	if err != nil {
		return store.NewStoreError("session", "create", "encoding failed", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, xp, level, coins, streak, study_streak, last_study_date, daily_date,
			badges, achievements, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		state.ID,
		state.XP,
		state.Level,
		state.Coins,
		state.Streak,
		state.StudyStreak,
		state.LastStudyDate,
		state.DailyDate,
		string(badges),
		string(achievements),
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", state.ID.String()))
		return MapUniqueViolation(err, store.ErrSessionExists)
	}
	return nil
}

// Get implements store.SessionStore.Get.
func (s *PostgresSessionStore) Get(ctx context.Context, id uuid.UUID) (*session.State, error) {
	var state session.State
	var badges, achievements []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, xp, level, coins, streak, study_streak, last_study_date, daily_date,
			badges, achievements, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(
		&state.ID,
		&state.XP,
		&state.Level,
		&state.Coins,
		&state.Streak,
		&state.StudyStreak,
		&state.LastStudyDate,
		&state.DailyDate,
		&badges,
		&achievements,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrSessionNotFound
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(badges, &state.Badges); err != nil {
		return nil, store.NewStoreError("session", "get", "corrupt badges", err)
	}
	if err := json.Unmarshal(achievements, &state.Achievements); err != nil {
		return nil, store.NewStoreError("session", "get", "corrupt achievements", err)
	}
	return &state, nil
}

// Update implements store.SessionStore.Update.
func (s *PostgresSessionStore) Update(ctx context.Context, state *session.State) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	badges, achievements, err := encodeCollections(state)
	if err != nil {
		return store.NewStoreError("session", "update", "encoding failed", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			xp = $2, level = $3, coins = $4, streak = $5, study_streak = $6,
			last_study_date = $7, daily_date = $8, badges = $9, achievements = $10,
			updated_at = $11
		WHERE id = $1
	`,
		state.ID,
		state.XP,
		state.Level,
		state.Coins,
		state.Streak,
		state.StudyStreak,
		state.LastStudyDate,
		state.DailyDate,
		string(badges),
		string(achievements),
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", state.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrSessionNotFound)
}
