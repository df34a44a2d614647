package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReviewProgress(t *testing.T) {
	t.Parallel()
	sessionID := uuid.New()
	itemID := uuid.New()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	progress, err := NewReviewProgress(sessionID, itemID, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if progress.SessionID != sessionID {
		t.Errorf("Expected session ID %s, got %s", sessionID, progress.SessionID)
	}

	if progress.ItemID != itemID {
		t.Errorf("Expected item ID %s, got %s", itemID, progress.ItemID)
	}

	if progress.ReviewCount != 0 {
		t.Errorf("Expected review count 0, got %d", progress.ReviewCount)
	}

	if progress.EaseFactor != 2.5 {
		t.Errorf("Expected ease factor 2.5, got %f", progress.EaseFactor)
	}

	if progress.IntervalDays != 1 {
		t.Errorf("Expected interval 1, got %d", progress.IntervalDays)
	}

	if !progress.NextReviewAt.Equal(now) {
		t.Errorf("Expected NextReviewAt %v, got %v", now, progress.NextReviewAt)
	}

	if !progress.IsDue(now) {
		t.Error("Expected a new record to be due immediately")
	}

	_, err = NewReviewProgress(uuid.Nil, itemID, now)
	if err != ErrEmptyProgressSessionID {
		t.Errorf("Expected error %v, got %v", ErrEmptyProgressSessionID, err)
	}

	_, err = NewReviewProgress(sessionID, uuid.Nil, now)
	if err != ErrEmptyProgressItemID {
		t.Errorf("Expected error %v, got %v", ErrEmptyProgressItemID, err)
	}
}

func TestReviewProgressValidate(t *testing.T) {
	t.Parallel()
	base := func() *ReviewProgress {
		return &ReviewProgress{
			SessionID:    uuid.New(),
			ItemID:       uuid.New(),
			ReviewCount:  3,
			EaseFactor:   2.1,
			IntervalDays: 13,
			NextReviewAt: time.Now(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *ReviewProgress)
		wantErr error
	}{
		{name: "valid", mutate: func(p *ReviewProgress) {}, wantErr: nil},
		{name: "negative review count", mutate: func(p *ReviewProgress) { p.ReviewCount = -1 }, wantErr: ErrInvalidReviewCount},
		{name: "zero interval", mutate: func(p *ReviewProgress) { p.IntervalDays = 0 }, wantErr: ErrInvalidInterval},
		{name: "ease factor at 1.0", mutate: func(p *ReviewProgress) { p.EaseFactor = 1.0 }, wantErr: ErrInvalidEaseFactor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := base()
			tc.mutate(p)
			if err := p.Validate(); err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestReviewProgressIsDue(t *testing.T) {
	t.Parallel()
	now := time.Now()
	p := &ReviewProgress{NextReviewAt: now.Add(time.Hour)}

	if p.IsDue(now) {
		t.Error("Expected record scheduled in the future not to be due")
	}
	if !p.IsDue(now.Add(2 * time.Hour)) {
		t.Error("Expected record to be due once its review time has passed")
	}
}
