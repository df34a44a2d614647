package generation

import (
	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// Generator defines the interface for producing study material from text.
// It serves as the boundary between the services and the content heuristics.
type Generator interface {
	// Summarize selects the bullets best-scoring sentences, in text order.
	// It returns ErrInsufficientContent when nothing qualifies.
	Summarize(text string, bullets int, focus Focus) (*Summary, error)

	// KeyPoints returns up to maxPoints categorised sentences. When none
	// qualify the result is a single placeholder point.
	KeyPoints(text string, maxPoints int) []KeyPoint

	// Flashcards returns exactly n cards whenever the text holds at least
	// one sentence and one keyword.
	Flashcards(text string, n int) []domain.Flashcard

	// Quiz returns at most n items drawn from the requested kinds. An empty
	// kinds slice means every quiz kind.
	Quiz(text string, n int, difficulty domain.Difficulty, kinds []domain.Kind) ([]domain.QuizItem, error)
}

// Option configures a heuristic generator.
type Option func(*heuristicGenerator)

// WithIDSource replaces uuid.New as the source of item identities.
func WithIDSource(newID func() uuid.UUID) Option {
	return func(g *heuristicGenerator) {
		g.newID = newID
	}
}

type heuristicGenerator struct {
	rng   Rand
	newID func() uuid.UUID
}

var _ Generator = (*heuristicGenerator)(nil)

// NewHeuristic returns a Generator driven by keyword scoring. A nil rng
// falls back to a clock-seeded source.
func NewHeuristic(rng Rand, opts ...Option) Generator {
	if rng == nil {
		rng = NewLockedRand(0)
	}

	g := &heuristicGenerator{
		rng:   rng,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
