package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const progressColumns = `session_id, item_id, review_count, ease_factor, interval_days,
	next_review_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*domain.ReviewProgress, error) {
	var p domain.ReviewProgress
	err := row.Scan(
		&p.SessionID,
		&p.ItemID,
		&p.ReviewCount,
		&p.EaseFactor,
		&p.IntervalDays,
		&p.NextReviewAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get implements store.ProgressStore.Get.
func (s *PostgresProgressStore) Get(ctx context.Context, sessionID, itemID uuid.UUID) (*domain.ReviewProgress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM review_progress WHERE session_id = $1 AND item_id = $2`,
		sessionID, itemID)
	p, err := scanProgress(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrProgressNotFound
		}
		return nil, MapError(err)
	}
	return p, nil
}

// Upsert implements store.ProgressStore.Upsert. The creation time of an
// existing record is kept.
func (s *PostgresProgressStore) Upsert(ctx context.Context, p *domain.ReviewProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return store.NewStoreError("review progress", "upsert", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_progress (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id, item_id) DO UPDATE SET
			review_count = EXCLUDED.review_count,
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = EXCLUDED.updated_at
	`,
		p.SessionID,
		p.ItemID,
		p.ReviewCount,
		p.EaseFactor,
		p.IntervalDays,
		p.NextReviewAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert review progress",
			slog.String("error", err.Error()),
			slog.String("session_id", p.SessionID.String()),
			slog.String("item_id", p.ItemID.String()))
		return MapError(err)
	}
	return nil
}

// ListBySession implements store.ProgressStore.ListBySession.
func (s *PostgresProgressStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReviewProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+progressColumns+` FROM review_progress WHERE session_id = $1 ORDER BY next_review_at`,
		sessionID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.ReviewProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

// CountDue implements store.ProgressStore.CountDue.
func (s *PostgresProgressStore) CountDue(ctx context.Context, now time.Time) (map[uuid.UUID]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*)
		FROM review_progress
		WHERE next_review_at <= $1
		GROUP BY session_id
	`, now)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, MapError(err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}
