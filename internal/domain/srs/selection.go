package srs

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// Candidate is a card together with its priority for the next review.
type Candidate struct {
	Card     domain.Flashcard
	Priority float64
}

// calculatePriority ranks a card for selection.
//
//   - Never reviewed: params.NewItemPriority
//   - Due now or overdue: params.DuePriority
//   - Scheduled: FuturePriorityCeiling minus the fractional days until due,
//     never below params.MinPriority
func calculatePriority(progress *domain.ReviewProgress, now time.Time, params *Params) float64 {
	if progress == nil {
		return params.NewItemPriority
	}

	if progress.IsDue(now) {
		return params.DuePriority
	}

	daysUntil := progress.NextReviewAt.Sub(now).Hours() / 24
	return math.Max(params.MinPriority, params.FuturePriorityCeiling-daysUntil)
}

// rankCandidates orders cards by descending priority. Cards with equal
// priority keep their deck order.
func rankCandidates(
	cards []domain.Flashcard,
	progress map[uuid.UUID]*domain.ReviewProgress,
	now time.Time,
	params *Params,
) []Candidate {
	ranked := make([]Candidate, 0, len(cards))
	for _, card := range cards {
		ranked = append(ranked, Candidate{
			Card:     card,
			Priority: calculatePriority(progress[card.ID], now, params),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	return ranked
}

// shortlist returns the top params.ShortlistSize ranked candidates.
func shortlist(ranked []Candidate, params *Params) []Candidate {
	if len(ranked) > params.ShortlistSize {
		return ranked[:params.ShortlistSize]
	}
	return ranked
}
