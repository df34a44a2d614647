package service

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/memory"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

var testGenerationConfig = config.GenerationConfig{
	SummaryBullets:    6,
	KeyPoints:         8,
	Flashcards:        10,
	QuizQuestions:     8,
	DefaultDifficulty: "medium",
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Summarize(text string, bullets int, focus generation.Focus) (*generation.Summary, error) {
	args := m.Called(text, bullets, focus)
	summary, _ := args.Get(0).(*generation.Summary)
	return summary, args.Error(1)
}

func (m *mockGenerator) KeyPoints(text string, maxPoints int) []generation.KeyPoint {
	args := m.Called(text, maxPoints)
	points, _ := args.Get(0).([]generation.KeyPoint)
	return points
}

func (m *mockGenerator) Flashcards(text string, n int) []domain.Flashcard {
	args := m.Called(text, n)
	cards, _ := args.Get(0).([]domain.Flashcard)
	return cards
}

func (m *mockGenerator) Quiz(
	text string,
	n int,
	difficulty domain.Difficulty,
	kinds []domain.Kind,
) ([]domain.QuizItem, error) {
	args := m.Called(text, n, difficulty, kinds)
	items, _ := args.Get(0).([]domain.QuizItem)
	return items, args.Error(1)
}

var _ generation.Generator = (*mockGenerator)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires the services to one in-memory store and records every
// published event.
type fixture struct {
	db       *memory.DB
	inbox    *events.Inbox
	sessions SessionService
	study    StudyService
	review   ReviewService
	gen      generation.Generator
}

func newFixture(t *testing.T, gen generation.Generator) *fixture {
	t.Helper()

	if gen == nil {
		gen = generation.NewHeuristic(rand.New(rand.NewSource(7)))
	}

	db := memory.NewDB(quietLogger())
	inbox := events.NewInbox(0)
	emitter := events.NewInMemoryEventEmitter(quietLogger())
	emitter.RegisterHandler(inbox)
	clock := WithClock(func() time.Time { return testNow })

	sessions, err := NewSessionService(db, emitter, quietLogger(), clock)
	require.NoError(t, err)
	study, err := NewStudyService(db, gen, testGenerationConfig, emitter, quietLogger(), clock)
	require.NoError(t, err)
	srsService := srs.NewServiceWithParams(srs.NewDefaultParams(), rand.New(rand.NewSource(1)))
	review, err := NewReviewService(db, srsService, emitter, quietLogger(), clock)
	require.NoError(t, err)

	return &fixture{
		db:       db,
		inbox:    inbox,
		sessions: sessions,
		study:    study,
		review:   review,
		gen:      gen,
	}
}

func (f *fixture) newSession(t *testing.T) uuid.UUID {
	t.Helper()
	state, err := f.sessions.Create(context.Background())
	require.NoError(t, err)
	return state.ID
}

func (f *fixture) state(t *testing.T, id uuid.UUID) *session.State {
	t.Helper()
	state, err := f.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	return state
}

const studyText = `Photosynthesis is the process plants use to convert light energy into chemical energy.
Chlorophyll absorbs red and blue light and gives plants their green colour.
The chemical energy is stored as glucose in the cells of the leaf.
Respiration releases the energy stored in glucose so that cells can do work.
Enzymes are proteins that speed up chemical reactions in living organisms.
Osmosis is the movement of water across a membrane from low to high solute concentration.`

func testCards() []domain.Flashcard {
	return []domain.Flashcard{
		{ID: uuid.New(), Kind: domain.KindDefinition, Question: "What is Entropy?", Answer: "a measure of disorder in a system"},
		{ID: uuid.New(), Kind: domain.KindTrueFalse, Question: "True or False: entropy always decreases.", Answer: domain.AnswerFalse},
	}
}
