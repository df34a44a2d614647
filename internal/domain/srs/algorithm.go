package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

const day = 24 * time.Hour

// decayEaseFactor lowers the ease factor by the configured decay, never
// going below params.MinEaseFactor.
func decayEaseFactor(currentEF float64, params *Params) float64 {
	return math.Max(params.MinEaseFactor, currentEF-params.EaseDecay)
}

// calculateNewInterval determines the interval in days after a review.
//
// Algorithm behavior:
//   - Incorrect recall always resets the interval to 1 day
//   - The first review uses params.FirstInterval, the second params.SecondInterval
//   - Later correct reviews multiply the current interval by the (already decayed)
//     ease factor, truncating toward zero
//
// reviewCount is the count after the current review has been recorded.
func calculateNewInterval(
	currentInterval int,
	reviewCount int,
	easeFactor float64,
	correct bool,
	params *Params,
) int {
	if !correct {
		return 1
	}

	switch reviewCount {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	}

	interval := int(float64(currentInterval) * easeFactor)
	if interval < 1 {
		return 1
	}
	return interval
}

// calculateNextReviewDate schedules the next review interval whole days after now.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.Add(time.Duration(interval) * day)
}

// calculateNextProgress creates a new ReviewProgress reflecting one review.
//
// The input is never modified. The ease factor decays on every incorrect
// review and on every correct review after the second; the decayed value is
// the one used to grow the interval. With default parameters an item answered
// correctly every time is scheduled 1, 6, 13 and 27 days out.
func calculateNextProgress(
	progress *domain.ReviewProgress,
	correct bool,
	now time.Time,
	params *Params,
) *domain.ReviewProgress {
	next := *progress

	next.ReviewCount++

	if !correct || next.ReviewCount > 2 {
		next.EaseFactor = decayEaseFactor(progress.EaseFactor, params)
	}

	next.IntervalDays = calculateNewInterval(
		progress.IntervalDays,
		next.ReviewCount,
		next.EaseFactor,
		correct,
		params,
	)

	next.NextReviewAt = calculateNextReviewDate(next.IntervalDays, now)
	next.UpdatedAt = now

	return &next
}
