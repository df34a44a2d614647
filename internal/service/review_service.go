package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/grading"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// ReviewAnswer is a learner's answer to a flashcard. A non-empty Guess is
// checked against the card; otherwise Correct is the learner's own
// assessment.
type ReviewAnswer struct {
	Correct *bool
	Guess   string
}

// NextCard is the card to review next with its scheduling state.
type NextCard struct {
	Card     domain.Flashcard       `json:"card"`
	Progress *domain.ReviewProgress `json:"progress,omitempty"`
	DueCount int                    `json:"due_count"`
}

// ReviewResult is the outcome of one flashcard review.
type ReviewResult struct {
	Recalled bool                   `json:"recalled"`
	Answer   string                 `json:"answer"`
	Progress *domain.ReviewProgress `json:"progress"`
	*Outcome
}

// ReviewService drives spaced-repetition practice over a deck.
type ReviewService interface {
	// NextCard picks the card of the deck to review next.
	NextCard(ctx context.Context, sessionID, deckID uuid.UUID) (*NextCard, error)

	// ReviewCard records one review and reschedules the card.
	ReviewCard(ctx context.Context, sessionID, deckID, cardID uuid.UUID, answer ReviewAnswer) (*ReviewResult, error)
}

type reviewServiceImpl struct {
	db     Store
	srs    srs.Service
	rec    *recorder
	now    func() time.Time
	logger *slog.Logger
}

var _ ReviewService = (*reviewServiceImpl)(nil)

// NewReviewService creates a ReviewService. The emitter may be nil.
func NewReviewService(
	db Store,
	srsService srs.Service,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (ReviewService, error) {
	if db == nil {
		return nil, errors.New("store cannot be nil")
	}
	if srsService == nil {
		return nil, errors.New("srs service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "review_service"))

	return &reviewServiceImpl{
		db:     db,
		srs:    srsService,
		rec:    &recorder{emitter: emitter, logger: logger},
		now:    buildOptions(opts).now,
		logger: logger,
	}, nil
}

func (s *reviewServiceImpl) NextCard(ctx context.Context, sessionID, deckID uuid.UUID) (*NextCard, error) {
	stores := s.db.Stores()
	now := s.now()

	deck, err := loadDeck(ctx, stores, sessionID, deckID)
	if err != nil {
		return nil, err
	}

	progress, err := deckProgress(ctx, stores, deck)
	if err != nil {
		return nil, err
	}

	card, err := s.srs.SelectNext(deck.Cards, progress, now)
	if err != nil {
		return nil, NewServiceError("review", "next_card", "failed to select card", err)
	}

	due := 0
	for _, p := range progress {
		if p.IsDue(now) {
			due++
		}
	}

	return &NextCard{Card: card, Progress: progress[card.ID], DueCount: due}, nil
}

func (s *reviewServiceImpl) ReviewCard(
	ctx context.Context,
	sessionID, deckID, cardID uuid.UUID,
	answer ReviewAnswer,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	if answer.Guess == "" && answer.Correct == nil {
		return nil, ErrMissingAnswer
	}

	deck, err := loadDeck(ctx, s.db.Stores(), sessionID, deckID)
	if err != nil {
		return nil, err
	}
	card, ok := deck.Card(cardID)
	if !ok {
		return nil, ErrCardNotFound
	}

	var recalled bool
	if answer.Guess != "" {
		recalled = grading.CheckRecall(answer.Guess, card.Answer)
	} else {
		recalled = *answer.Correct
	}

	var next *domain.ReviewProgress
	outcome, err := s.rec.record(ctx, s.db, sessionID, now,
		func(ctx context.Context, tx store.Stores) ([]session.Event, error) {
			current, err := tx.Progress.Get(ctx, sessionID, card.ID)
			if errors.Is(err, store.ErrProgressNotFound) {
				current, err = domain.NewReviewProgress(sessionID, card.ID, now)
			}
			if err != nil {
				return nil, err
			}

			next, err = s.srs.CalculateNextReview(current, recalled, now)
			if err != nil {
				return nil, err
			}
			if err := tx.Progress.Upsert(ctx, next); err != nil {
				return nil, err
			}

			return []session.Event{
				session.CardReviewed(card.Kind, recalled),
				session.Simple(session.EventStudyActivity),
			}, nil
		})
	if err != nil {
		log.Error("failed to record review",
			slog.String("session_id", sessionID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, wrapSessionErr("review_card", err)
	}

	log.Debug("card reviewed",
		slog.String("card_id", cardID.String()),
		slog.Bool("recalled", recalled),
		slog.Int("interval_days", next.IntervalDays))

	return &ReviewResult{
		Recalled: recalled,
		Answer:   card.Answer,
		Progress: next,
		Outcome:  outcome,
	}, nil
}

// deckProgress returns the session's progress on the deck's cards.
func deckProgress(
	ctx context.Context,
	stores store.Stores,
	deck *domain.Deck,
) (map[uuid.UUID]*domain.ReviewProgress, error) {
	records, err := stores.Progress.ListBySession(ctx, deck.SessionID)
	if err != nil {
		return nil, NewServiceError("review", "next_card", "failed to load review progress", err)
	}

	inDeck := make(map[uuid.UUID]bool, len(deck.Cards))
	for _, c := range deck.Cards {
		inDeck[c.ID] = true
	}

	progress := make(map[uuid.UUID]*domain.ReviewProgress)
	for _, p := range records {
		if inDeck[p.ItemID] {
			progress[p.ItemID] = p
		}
	}
	return progress, nil
}
