package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgress(t *testing.T, now time.Time) *domain.ReviewProgress {
	t.Helper()
	p, err := domain.NewReviewProgress(uuid.New(), uuid.New(), now)
	require.NoError(t, err)
	return p
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name        string
		current     int
		reviewCount int
		ef          float64
		correct     bool
		expected    int
	}{
		{name: "incorrect resets interval", current: 27, reviewCount: 5, ef: 2.1, correct: false, expected: 1},
		{name: "first correct review", current: 1, reviewCount: 1, ef: 2.5, correct: true, expected: 1},
		{name: "second correct review", current: 1, reviewCount: 2, ef: 2.5, correct: true, expected: 6},
		{name: "third correct review multiplies by ease", current: 6, reviewCount: 3, ef: 2.3, correct: true, expected: 13},
		{name: "product is truncated", current: 10, reviewCount: 4, ef: 1.35, correct: true, expected: 13},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewInterval(tc.current, tc.reviewCount, tc.ef, tc.correct, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDecayEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.InDelta(t, 2.3, decayEaseFactor(2.5, params), 1e-9)
	assert.InDelta(t, 1.3, decayEaseFactor(1.4, params), 1e-9, "decay stops at the floor")
	assert.InDelta(t, 1.3, decayEaseFactor(1.3, params), 1e-9)
}

func TestCalculateNextProgress_AllCorrectIntervals(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	progress := newProgress(t, now)

	expected := []int{1, 6, 13, 27}
	for i, want := range expected {
		progress = calculateNextProgress(progress, true, now, params)
		assert.Equal(t, want, progress.IntervalDays, "review %d", i+1)
		assert.Equal(t, i+1, progress.ReviewCount)
		assert.Equal(t, now.Add(time.Duration(want)*24*time.Hour), progress.NextReviewAt)
	}
	assert.InDelta(t, 2.1, progress.EaseFactor, 1e-9)
}

func TestCalculateNextProgress_EaseNeverBelowFloor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now()
	progress := newProgress(t, now)

	for i := 0; i < 30; i++ {
		progress = calculateNextProgress(progress, true, now, params)
		assert.GreaterOrEqual(t, progress.EaseFactor, params.MinEaseFactor)
	}
	assert.InDelta(t, params.MinEaseFactor, progress.EaseFactor, 1e-9)
}

func TestCalculateNextProgress_IncorrectResets(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now()

	for _, priorReviews := range []int{0, 1, 2, 5} {
		progress := newProgress(t, now)
		for i := 0; i < priorReviews; i++ {
			progress = calculateNextProgress(progress, true, now, params)
		}
		before := *progress

		after := calculateNextProgress(progress, false, now, params)

		assert.Equal(t, 1, after.IntervalDays)
		assert.InDelta(t, before.EaseFactor-0.2, after.EaseFactor, 1e-9)
		assert.Equal(t, before.ReviewCount+1, after.ReviewCount)
		assert.Equal(t, now.Add(24*time.Hour), after.NextReviewAt)
		assert.Equal(t, before, *progress, "input must not be modified")
	}
}
