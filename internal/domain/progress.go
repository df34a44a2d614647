package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Initial values for a progress record that has never been updated.
const (
	InitialEaseFactor   = 2.5
	InitialIntervalDays = 1
)

// Common validation errors for ReviewProgress
var (
	ErrEmptyProgressSessionID = errors.New("review progress session ID cannot be empty")
	ErrEmptyProgressItemID    = errors.New("review progress item ID cannot be empty")
	ErrInvalidReviewCount     = errors.New("review count must be greater than or equal to 0")
	ErrInvalidInterval        = errors.New("interval must be greater than or equal to 1")
	ErrInvalidEaseFactor      = errors.New("ease factor must be greater than 1.0")
)

// ReviewProgress tracks a learner's spaced repetition state for one item.
// Records are created on the first review and never deleted.
type ReviewProgress struct {
	SessionID    uuid.UUID `json:"session_id"`
	ItemID       uuid.UUID `json:"item_id"`
	ReviewCount  int       `json:"review_count"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	NextReviewAt time.Time `json:"next_review_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewReviewProgress creates the record used on an item's first review.
// The item is due immediately.
func NewReviewProgress(sessionID, itemID uuid.UUID, now time.Time) (*ReviewProgress, error) {
	progress := &ReviewProgress{
		SessionID:    sessionID,
		ItemID:       itemID,
		ReviewCount:  0,
		EaseFactor:   InitialEaseFactor,
		IntervalDays: InitialIntervalDays,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the ReviewProgress has valid data.
func (p *ReviewProgress) Validate() error {
	if p.SessionID == uuid.Nil {
		return ErrEmptyProgressSessionID
	}

	if p.ItemID == uuid.Nil {
		return ErrEmptyProgressItemID
	}

	if p.ReviewCount < 0 {
		return ErrInvalidReviewCount
	}

	if p.IntervalDays < 1 {
		return ErrInvalidInterval
	}

	if p.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	return nil
}

// IsDue reports whether the item should be reviewed at now.
func (p *ReviewProgress) IsDue(now time.Time) bool {
	return !p.NextReviewAt.After(now)
}
