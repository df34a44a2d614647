package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeck(t *testing.T, f *fixture, sessionID uuid.UUID) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(sessionID, "Entropy", testCards())
	require.NoError(t, err)
	require.NoError(t, f.db.Stores().Decks.Create(context.Background(), deck))
	return deck
}

func boolPtr(b bool) *bool { return &b }

func TestNewReviewService(t *testing.T) {
	t.Parallel()

	_, err := NewReviewService(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestReviewService_NextCardFreshDeck(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	id := f.newSession(t)
	deck := newDeck(t, f, id)

	next, err := f.review.NextCard(context.Background(), id, deck.ID)
	require.NoError(t, err)

	_, inDeck := deck.Card(next.Card.ID)
	assert.True(t, inDeck)
	assert.Nil(t, next.Progress)
	assert.Equal(t, 0, next.DueCount)
}

func TestReviewService_ReviewSchedules(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)
	deck := newDeck(t, f, id)
	card := deck.Cards[0]

	first, err := f.review.ReviewCard(ctx, id, deck.ID, card.ID, ReviewAnswer{Correct: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, first.Recalled)
	assert.Equal(t, card.Answer, first.Answer)
	assert.Equal(t, 1, first.Progress.ReviewCount)
	assert.Equal(t, 1, first.Progress.IntervalDays)
	assert.Equal(t, testNow.Add(24*time.Hour), first.Progress.NextReviewAt)
	// definition cards earn 3 XP and a coin when recalled
	assert.Equal(t, 3, first.Session.XP)
	assert.Equal(t, 1, first.Session.Coins)

	second, err := f.review.ReviewCard(ctx, id, deck.ID, card.ID, ReviewAnswer{Correct: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Progress.ReviewCount)
	assert.Equal(t, 6, second.Progress.IntervalDays)

	stored, err := f.db.Stores().Progress.Get(ctx, id, card.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Progress.NextReviewAt, stored.NextReviewAt)

	missed, err := f.review.ReviewCard(ctx, id, deck.ID, card.ID, ReviewAnswer{Correct: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, missed.Recalled)
	assert.Equal(t, 1, missed.Progress.IntervalDays)
	assert.InDelta(t, 2.3, missed.Progress.EaseFactor, 1e-9)
}

func TestReviewService_Guess(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)
	deck := newDeck(t, f, id)
	card := deck.Cards[0]

	res, err := f.review.ReviewCard(ctx, id, deck.ID, card.ID, ReviewAnswer{Guess: "Measure of disorder"})
	require.NoError(t, err)
	assert.True(t, res.Recalled)

	// A typed guess wins over the self-assessment
	res, err = f.review.ReviewCard(ctx, id, deck.ID, card.ID, ReviewAnswer{Guess: "kinetic energy", Correct: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, res.Recalled)
}

func TestReviewService_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)
	deck := newDeck(t, f, id)

	_, err := f.review.ReviewCard(ctx, id, deck.ID, deck.Cards[0].ID, ReviewAnswer{})
	assert.ErrorIs(t, err, ErrMissingAnswer)

	_, err = f.review.ReviewCard(ctx, id, deck.ID, uuid.New(), ReviewAnswer{Correct: boolPtr(true)})
	assert.ErrorIs(t, err, ErrCardNotFound)

	_, err = f.review.ReviewCard(ctx, id, uuid.New(), deck.Cards[0].ID, ReviewAnswer{Correct: boolPtr(true)})
	assert.ErrorIs(t, err, ErrDeckNotFound)

	other := f.newSession(t)
	_, err = f.review.NextCard(ctx, other, deck.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestReviewService_RollsBackWithoutSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	ghost := uuid.New()
	deck := newDeck(t, f, ghost)

	_, err := f.review.ReviewCard(ctx, ghost, deck.ID, deck.Cards[0].ID, ReviewAnswer{Correct: boolPtr(true)})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.db.Stores().Progress.Get(ctx, ghost, deck.Cards[0].ID)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
}

func TestReviewService_NextCardWithProgress(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)

	cards := make([]domain.Flashcard, 5)
	for i := range cards {
		cards[i] = domain.Flashcard{ID: uuid.New(), Kind: domain.KindReview, Question: "q", Answer: "a"}
	}
	deck, err := domain.NewDeck(id, "Many", cards)
	require.NoError(t, err)
	require.NoError(t, f.db.Stores().Decks.Create(ctx, deck))

	due := &domain.ReviewProgress{
		SessionID:    id,
		ItemID:       cards[4].ID,
		ReviewCount:  3,
		EaseFactor:   2.5,
		IntervalDays: 6,
		NextReviewAt: testNow.Add(-time.Hour),
	}
	require.NoError(t, f.db.Stores().Progress.Upsert(ctx, due))
	for _, c := range cards[:4] {
		require.NoError(t, f.db.Stores().Progress.Upsert(ctx, &domain.ReviewProgress{
			SessionID:    id,
			ItemID:       c.ID,
			ReviewCount:  1,
			EaseFactor:   2.5,
			IntervalDays: 30,
			NextReviewAt: testNow.Add(30 * 24 * time.Hour),
		}))
	}

	next, err := f.review.NextCard(ctx, id, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.DueCount)
	require.NotNil(t, next.Progress)
	assert.Equal(t, next.Card.ID, next.Progress.ItemID)
}
