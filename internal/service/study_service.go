package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/examstats"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/grading"
	"github.com/phrazzld/scry-study/internal/nlp"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/report"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// Study service errors
var (
	// ErrNoSubmissions indicates a quiz was submitted without any answer.
	ErrNoSubmissions = errors.New("quiz has no submissions")

	// ErrNoExamRows indicates no exam row survived cleaning.
	ErrNoExamRows = errors.New("no usable exam questions")
)

const (
	maxTitleLength = 60
	untitledDeck   = "Untitled deck"
)

// SummaryRequest asks for a summary of Text.
type SummaryRequest struct {
	Text    string
	Bullets int
	Focus   generation.Focus
}

// SummaryResult is a generated summary in every presentation.
type SummaryResult struct {
	Sentences []string `json:"sentences"`
	Bullets   []string `json:"bullets"`
	Markdown  string   `json:"markdown"`
	HTML      string   `json:"html"`
	*Outcome
}

// DeckRequest asks for a flashcard deck built from Text. Kinds, when set,
// keeps only cards of those kinds.
type DeckRequest struct {
	Title string
	Text  string
	Count int
	Kinds []domain.Kind
}

// DeckResult is a newly saved deck.
type DeckResult struct {
	Deck *domain.Deck `json:"deck"`
	*Outcome
}

// QuizRequest asks for a quiz built from Text.
type QuizRequest struct {
	Text       string
	Count      int
	Difficulty domain.Difficulty
	Kinds      []domain.Kind
}

// GradeResult is a graded quiz.
type GradeResult struct {
	Correct int              `json:"correct"`
	Total   int              `json:"total"`
	Results []grading.Result `json:"results"`
	*Outcome
}

// ExamResult is an exam analysis.
type ExamResult struct {
	Analysis examstats.Analysis `json:"analysis"`
	*Outcome
}

// ReportRequest asks for a study report. Rows are optional exam rows to
// include.
type ReportRequest struct {
	Title string
	Rows  []examstats.Row
	TopN  int
}

// StudyService turns text into study material and records the learning
// activity against the session.
type StudyService interface {
	Summarize(ctx context.Context, sessionID uuid.UUID, req SummaryRequest) (*SummaryResult, error)
	KeyPoints(ctx context.Context, text string, maxPoints int) []generation.KeyPoint
	CreateDeck(ctx context.Context, sessionID uuid.UUID, req DeckRequest) (*DeckResult, error)
	GetDeck(ctx context.Context, sessionID, deckID uuid.UUID) (*domain.Deck, error)
	ListDecks(ctx context.Context, sessionID uuid.UUID) ([]*domain.Deck, error)
	GenerateQuiz(ctx context.Context, req QuizRequest) ([]domain.QuizItem, error)
	GradeQuiz(ctx context.Context, sessionID uuid.UUID, subs []domain.Submission) (*GradeResult, error)
	AnalyzeExam(ctx context.Context, sessionID uuid.UUID, rows []examstats.Row, topN int) (*ExamResult, error)
	Report(ctx context.Context, sessionID uuid.UUID, req ReportRequest) (*report.Report, error)
}

type studyServiceImpl struct {
	db       Store
	gen      generation.Generator
	renderer *report.Renderer
	cfg      config.GenerationConfig
	rec      *recorder
	now      func() time.Time
	logger   *slog.Logger
}

var _ StudyService = (*studyServiceImpl)(nil)

// NewStudyService creates a StudyService. The emitter may be nil.
func NewStudyService(
	db Store,
	gen generation.Generator,
	cfg config.GenerationConfig,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (StudyService, error) {
	if db == nil {
		return nil, errors.New("store cannot be nil")
	}
	if gen == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "study_service"))

	return &studyServiceImpl{
		db:       db,
		gen:      gen,
		renderer: report.NewRenderer(),
		cfg:      cfg,
		rec:      &recorder{emitter: emitter, logger: logger},
		now:      buildOptions(opts).now,
		logger:   logger,
	}, nil
}

func (s *studyServiceImpl) Summarize(
	ctx context.Context,
	sessionID uuid.UUID,
	req SummaryRequest,
) (*SummaryResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bullets := req.Bullets
	if bullets <= 0 {
		bullets = s.cfg.SummaryBullets
	}

	summary, err := s.gen.Summarize(req.Text, bullets, req.Focus)
	if err != nil {
		log.Debug("summary not generated", slog.String("error", err.Error()))
		return nil, err
	}

	htmlOut, err := s.renderer.Summary(summary)
	if err != nil {
		return nil, NewServiceError("study", "summarize", "failed to render summary", err)
	}

	outcome, err := s.rec.record(ctx, s.db, sessionID, s.now(), noChanges(
		session.Simple(session.EventSummaryGenerated),
		session.Simple(session.EventStudyActivity),
	))
	if err != nil {
		return nil, wrapSessionErr("summarize", err)
	}

	log.Info("summary generated",
		slog.String("session_id", sessionID.String()),
		slog.Int("sentences", len(summary.Sentences)))

	return &SummaryResult{
		Sentences: summary.Sentences,
		Bullets:   summary.Bullets(),
		Markdown:  summary.Markdown(),
		HTML:      htmlOut,
		Outcome:   outcome,
	}, nil
}

func (s *studyServiceImpl) KeyPoints(_ context.Context, text string, maxPoints int) []generation.KeyPoint {
	if maxPoints <= 0 {
		maxPoints = s.cfg.KeyPoints
	}
	return s.gen.KeyPoints(text, maxPoints)
}

func (s *studyServiceImpl) CreateDeck(ctx context.Context, sessionID uuid.UUID, req DeckRequest) (*DeckResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count := req.Count
	if count <= 0 {
		count = s.cfg.Flashcards
	}

	cards := filterKinds(s.gen.Flashcards(req.Text, count), req.Kinds)
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = deckTitle(req.Text)
	}

	deck, err := domain.NewDeck(sessionID, title, cards)
	if err != nil {
		return nil, NewServiceError("study", "create_deck", "generated deck is invalid", err)
	}
	deck.CreatedAt = s.now().UTC()

	outcome, err := s.rec.record(ctx, s.db, sessionID, s.now(),
		func(ctx context.Context, tx store.Stores) ([]session.Event, error) {
			if err := tx.Decks.Create(ctx, deck); err != nil {
				return nil, err
			}
			return []session.Event{
				session.Simple(session.EventFlashcardsGenerated),
				session.Simple(session.EventStudyActivity),
			}, nil
		})
	if err != nil {
		log.Error("failed to create deck",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		return nil, wrapSessionErr("create_deck", err)
	}

	log.Info("deck created",
		slog.String("session_id", sessionID.String()),
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(deck.Cards)))

	return &DeckResult{Deck: deck, Outcome: outcome}, nil
}

func (s *studyServiceImpl) GetDeck(ctx context.Context, sessionID, deckID uuid.UUID) (*domain.Deck, error) {
	return loadDeck(ctx, s.db.Stores(), sessionID, deckID)
}

func (s *studyServiceImpl) ListDecks(ctx context.Context, sessionID uuid.UUID) ([]*domain.Deck, error) {
	decks, err := s.db.Stores().Decks.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, NewServiceError("study", "list_decks", "failed to load decks", err)
	}
	return decks, nil
}

func (s *studyServiceImpl) GenerateQuiz(_ context.Context, req QuizRequest) ([]domain.QuizItem, error) {
	count := req.Count
	if count <= 0 {
		count = s.cfg.QuizQuestions
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = domain.Difficulty(s.cfg.DefaultDifficulty)
	}

	items, err := s.gen.Quiz(req.Text, count, difficulty, req.Kinds)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, generation.ErrInsufficientContent
	}
	return items, nil
}

func (s *studyServiceImpl) GradeQuiz(
	ctx context.Context,
	sessionID uuid.UUID,
	subs []domain.Submission,
) (*GradeResult, error) {
	if len(subs) == 0 {
		return nil, ErrNoSubmissions
	}

	results := grading.Feedback(subs)
	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}

	outcome, err := s.rec.record(ctx, s.db, sessionID, s.now(), noChanges(
		session.QuizCompleted(correct, len(subs)),
		session.Simple(session.EventStudyActivity),
	))
	if err != nil {
		return nil, wrapSessionErr("grade_quiz", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("quiz graded",
		slog.String("session_id", sessionID.String()),
		slog.Int("correct", correct),
		slog.Int("total", len(subs)))

	return &GradeResult{Correct: correct, Total: len(subs), Results: results, Outcome: outcome}, nil
}

func (s *studyServiceImpl) AnalyzeExam(
	ctx context.Context,
	sessionID uuid.UUID,
	rows []examstats.Row,
	topN int,
) (*ExamResult, error) {
	analysis := examstats.Analyze(rows, topN)
	if analysis.Rows == 0 {
		return nil, ErrNoExamRows
	}

	outcome, err := s.rec.record(ctx, s.db, sessionID, s.now(), noChanges(
		session.Simple(session.EventExamAnalyzed),
		session.Simple(session.EventStudyActivity),
	))
	if err != nil {
		return nil, wrapSessionErr("analyze_exam", err)
	}

	return &ExamResult{Analysis: analysis, Outcome: outcome}, nil
}

func (s *studyServiceImpl) Report(ctx context.Context, sessionID uuid.UUID, req ReportRequest) (*report.Report, error) {
	stores := s.db.Stores()
	now := s.now()

	state, err := stores.Sessions.Get(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, NewServiceError("study", "report", "failed to load session", err)
	}

	due, err := dueCount(ctx, stores, sessionID, now)
	if err != nil {
		return nil, err
	}

	data := report.Data{
		Title:           req.Title,
		GeneratedAt:     now,
		Session:         *state,
		DueCount:        due,
		Recommendations: session.Recommendations(*state, due),
	}
	if len(req.Rows) > 0 {
		analysis := examstats.Analyze(req.Rows, req.TopN)
		data.Exam = &analysis
	}

	rep, err := s.renderer.Build(data)
	if err != nil {
		return nil, NewServiceError("study", "report", "failed to render report", err)
	}
	return rep, nil
}

// noChanges records evs without touching any store besides the session.
func noChanges(evs ...session.Event) func(context.Context, store.Stores) ([]session.Event, error) {
	return func(context.Context, store.Stores) ([]session.Event, error) {
		return evs, nil
	}
}

func loadDeck(ctx context.Context, stores store.Stores, sessionID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := stores.Decks.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		return nil, NewServiceError("study", "get_deck", "failed to load deck", err)
	}
	if deck.SessionID != sessionID {
		return nil, ErrNotOwned
	}
	return deck, nil
}

func filterKinds(cards []domain.Flashcard, kinds []domain.Kind) []domain.Flashcard {
	if len(kinds) == 0 {
		return cards
	}
	kept := cards[:0:0]
	for _, c := range cards {
		if slices.Contains(kinds, c.Kind) {
			kept = append(kept, c)
		}
	}
	return kept
}

// deckTitle derives a title from the first sentence of text.
func deckTitle(text string) string {
	sentences := nlp.SegmentSentences(text)
	if len(sentences) == 0 {
		return untitledDeck
	}
	title := sentences[0]
	if utf8.RuneCountInString(title) <= maxTitleLength {
		return title
	}
	cut := string([]rune(title)[:maxTitleLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
