package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// ProgressStore implements store.ProgressStore on SQLite.
type ProgressStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewProgressStore creates a progress store on a database or transaction.
func NewProgressStore(db sqlx.ExtContext, logger *slog.Logger) *ProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

type progressRow struct {
	SessionID    uuid.UUID `db:"session_id"`
	ItemID       uuid.UUID `db:"item_id"`
	ReviewCount  int       `db:"review_count"`
	EaseFactor   float64   `db:"ease_factor"`
	IntervalDays int       `db:"interval_days"`
	NextReviewAt int64     `db:"next_review_at"`
	CreatedAt    int64     `db:"created_at"`
	UpdatedAt    int64     `db:"updated_at"`
}

func (r progressRow) toDomain() *domain.ReviewProgress {
	return &domain.ReviewProgress{
		SessionID:    r.SessionID,
		ItemID:       r.ItemID,
		ReviewCount:  r.ReviewCount,
		EaseFactor:   r.EaseFactor,
		IntervalDays: r.IntervalDays,
		NextReviewAt: fromMicros(r.NextReviewAt),
		CreatedAt:    fromMicros(r.CreatedAt),
		UpdatedAt:    fromMicros(r.UpdatedAt),
	}
}

const selectProgress = `SELECT session_id, item_id, review_count, ease_factor, interval_days,
	next_review_at, created_at, updated_at FROM review_progress`

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, sessionID, itemID uuid.UUID) (*domain.ReviewProgress, error) {
	var row progressRow
	err := sqlx.GetContext(ctx, s.db, &row,
		selectProgress+` WHERE session_id = ? AND item_id = ?`, sessionID, itemID)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrProgressNotFound
		}
		return nil, MapError(err)
	}
	return row.toDomain(), nil
}

// Upsert implements store.ProgressStore.Upsert. The creation time of an
// existing record is kept.
func (s *ProgressStore) Upsert(ctx context.Context, p *domain.ReviewProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return store.NewStoreError("review progress", "upsert", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_progress (
			session_id, item_id, review_count, ease_factor, interval_days,
			next_review_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, item_id) DO UPDATE SET
			review_count = excluded.review_count,
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			next_review_at = excluded.next_review_at,
			updated_at = excluded.updated_at
	`,
		p.SessionID,
		p.ItemID,
		p.ReviewCount,
		p.EaseFactor,
		p.IntervalDays,
		toMicros(p.NextReviewAt),
		toMicros(p.CreatedAt),
		toMicros(p.UpdatedAt),
	)
	if err != nil {
		log.Error("failed to upsert review progress",
			slog.String("error", err.Error()),
			slog.String("item_id", p.ItemID.String()))
		return MapError(err)
	}
	return nil
}

// ListBySession implements store.ProgressStore.ListBySession.
func (s *ProgressStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReviewProgress, error) {
	var rows []progressRow
	err := sqlx.SelectContext(ctx, s.db, &rows,
		selectProgress+` WHERE session_id = ? ORDER BY next_review_at`, sessionID)
	if err != nil {
		return nil, MapError(err)
	}

	out := make([]*domain.ReviewProgress, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// CountDue implements store.ProgressStore.CountDue.
func (s *ProgressStore) CountDue(ctx context.Context, now time.Time) (map[uuid.UUID]int, error) {
	var rows []struct {
		SessionID uuid.UUID `db:"session_id"`
		Due       int       `db:"due"`
	}
	err := sqlx.SelectContext(ctx, s.db, &rows, `
		SELECT session_id, COUNT(*) AS due
		FROM review_progress
		WHERE next_review_at <= ?
		GROUP BY session_id
	`, toMicros(now))
	if err != nil {
		return nil, MapError(err)
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		counts[r.SessionID] = r.Due
	}
	return counts, nil
}
