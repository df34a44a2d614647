package srs

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// Common errors
var (
	ErrNilProgress  = errors.New("review progress cannot be nil")
	ErrNoCandidates = errors.New("no cards to select from")
)

// Rand is the source of randomness used for selection.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the progress record that results from one review.
	// The input record is not modified.
	CalculateNextReview(
		progress *domain.ReviewProgress,
		correct bool,
		now time.Time,
	) (*domain.ReviewProgress, error)

	// Shortlist returns the highest-priority cards, best first.
	Shortlist(
		cards []domain.Flashcard,
		progress map[uuid.UUID]*domain.ReviewProgress,
		now time.Time,
	) []Candidate

	// SelectNext picks the card to review next. With no progress at all the
	// pick is uniform over every card; otherwise it is uniform over the shortlist.
	SelectNext(
		cards []domain.Flashcard,
		progress map[uuid.UUID]*domain.ReviewProgress,
		now time.Time,
	) (domain.Flashcard, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params

	mu  sync.Mutex
	rng Rand
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return NewServiceWithParams(NewDefaultParams(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewServiceWithParams creates a new SRS service with custom parameters and
// randomness. Passing a seeded source makes selection deterministic.
func NewServiceWithParams(params *Params, rng Rand) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
		rng:    rng,
	}
}

// CalculateNextReview implements the Service interface for calculating updated progress
func (s *defaultService) CalculateNextReview(
	progress *domain.ReviewProgress,
	correct bool,
	now time.Time,
) (*domain.ReviewProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return calculateNextProgress(progress, correct, now, s.params), nil
}

// Shortlist implements the Service interface
func (s *defaultService) Shortlist(
	cards []domain.Flashcard,
	progress map[uuid.UUID]*domain.ReviewProgress,
	now time.Time,
) []Candidate {
	return shortlist(rankCandidates(cards, progress, now, s.params), s.params)
}

// SelectNext implements the Service interface
func (s *defaultService) SelectNext(
	cards []domain.Flashcard,
	progress map[uuid.UUID]*domain.ReviewProgress,
	now time.Time,
) (domain.Flashcard, error) {
	if len(cards) == 0 {
		return domain.Flashcard{}, ErrNoCandidates
	}

	if len(progress) == 0 {
		return cards[s.intn(len(cards))], nil
	}

	top := s.Shortlist(cards, progress, now)
	return top[s.intn(len(top))].Card, nil
}

func (s *defaultService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
