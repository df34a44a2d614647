package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// SessionStore implements store.SessionStore on SQLite.
type SessionStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewSessionStore creates a session store on a database or transaction.
func NewSessionStore(db sqlx.ExtContext, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*SessionStore)(nil)

type sessionRow struct {
	ID            uuid.UUID `db:"id"`
	XP            int       `db:"xp"`
	Level         int       `db:"level"`
	Coins         int       `db:"coins"`
	Streak        int       `db:"streak"`
	StudyStreak   int       `db:"study_streak"`
	LastStudyDate string    `db:"last_study_date"`
	DailyDate     string    `db:"daily_date"`
	Badges        string    `db:"badges"`
	Achievements  string    `db:"achievements"`
	CreatedAt     int64     `db:"created_at"`
	UpdatedAt     int64     `db:"updated_at"`
}

func newSessionRow(state *session.State) (sessionRow, error) {
	badges := state.Badges
	if badges == nil {
		badges = []string{}
	}
	encodedBadges, err := json.Marshal(badges)
	if err != nil {
		return sessionRow{}, fmt.Errorf("failed to encode badges: %w", err)
	}
	encodedAchievements, err := json.Marshal(state.Achievements)
	if err != nil {
		return sessionRow{}, fmt.Errorf("failed to encode achievements: %w", err)
	}

	return sessionRow{
		ID:            state.ID,
		XP:            state.XP,
		Level:         state.Level,
		Coins:         state.Coins,
		Streak:        state.Streak,
		StudyStreak:   state.StudyStreak,
		LastStudyDate: state.LastStudyDate,
		DailyDate:     state.DailyDate,
		Badges:        string(encodedBadges),
		Achievements:  string(encodedAchievements),
		CreatedAt:     toMicros(state.CreatedAt),
		UpdatedAt:     toMicros(state.UpdatedAt),
	}, nil
}

func (r sessionRow) toState() (*session.State, error) {
	state := &session.State{
		ID:            r.ID,
		XP:            r.XP,
		Level:         r.Level,
		Coins:         r.Coins,
		Streak:        r.Streak,
		StudyStreak:   r.StudyStreak,
		LastStudyDate: r.LastStudyDate,
		DailyDate:     r.DailyDate,
		CreatedAt:     fromMicros(r.CreatedAt),
		UpdatedAt:     fromMicros(r.UpdatedAt),
	}
	if err := json.Unmarshal([]byte(r.Badges), &state.Badges); err != nil {
		return nil, store.NewStoreError("session", "get", "corrupt badges", err)
	}
	if err := json.Unmarshal([]byte(r.Achievements), &state.Achievements); err != nil {
		return nil, store.NewStoreError("session", "get", "corrupt achievements", err)
	}
	return state, nil
}

// Create implements store.SessionStore.Create.
func (s *SessionStore) Create(ctx context.Context, state *session.State) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if state.ID == uuid.Nil {
		return store.NewStoreError("session", "create", "empty session ID", store.ErrInvalidEntity)
	}
	row, err := newSessionRow(state)
	if err != nil {
		return store.NewStoreError("session", "create", "encoding failed", err)
	}

	_, err = sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO sessions (
			id, xp, level, coins, streak, study_streak, last_study_date, daily_date,
			badges, achievements, created_at, updated_at
		) VALUES (
			:id, :xp, :level, :coins, :streak, :study_streak, :last_study_date, :daily_date,
			:badges, :achievements, :created_at, :updated_at
		)
	`, row)
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", state.ID.String()))
		return mapUniqueViolation(err, store.ErrSessionExists)
	}
	return nil
}

// Get implements store.SessionStore.Get.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*session.State, error) {
	var row sessionRow
	err := sqlx.GetContext(ctx, s.db, &row, `SELECT * FROM sessions WHERE id = ?`, id)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrSessionNotFound
		}
		return nil, MapError(err)
	}
	return row.toState()
}

// Update implements store.SessionStore.Update.
func (s *SessionStore) Update(ctx context.Context, state *session.State) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := newSessionRow(state)
	if err != nil {
		return store.NewStoreError("session", "update", "encoding failed", err)
	}

	result, err := sqlx.NamedExecContext(ctx, s.db, `
		UPDATE sessions SET
			xp = :xp, level = :level, coins = :coins, streak = :streak,
			study_streak = :study_streak, last_study_date = :last_study_date,
			daily_date = :daily_date, badges = :badges, achievements = :achievements,
			updated_at = :updated_at
		WHERE id = :id
	`, row)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", state.ID.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}
