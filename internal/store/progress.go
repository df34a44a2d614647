package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// ProgressStore defines the interface for review progress persistence.
// Progress is keyed by (session, item).
type ProgressStore interface {
	// Get retrieves the progress of one item.
	// Returns ErrProgressNotFound if the item was never reviewed.
	Get(ctx context.Context, sessionID, itemID uuid.UUID) (*domain.ReviewProgress, error)

	// Upsert creates or replaces the progress of one item.
	// Returns ErrInvalidEntity if the record fails validation.
	Upsert(ctx context.Context, progress *domain.ReviewProgress) error

	// ListBySession returns all progress records of a session.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReviewProgress, error)

	// CountDue returns, per session, how many items are due at now.
	// Sessions with nothing due are omitted.
	CountDue(ctx context.Context, now time.Time) (map[uuid.UUID]int, error)
}
