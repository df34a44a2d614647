package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
)

// StudyHandler serves generated study material.
type StudyHandler struct {
	study  service.StudyService
	logger *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(study service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}
	return &StudyHandler{
		study:  study,
		logger: logger.With(slog.String("handler", "study_handler")),
	}
}

// Summarize handles POST /api/summaries.
func (h *StudyHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req SummaryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.study.Summarize(r.Context(), sessionID, service.SummaryRequest{
		Text:    req.Text,
		Bullets: req.Bullets,
		Focus:   req.Focus,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate summary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// KeyPoints handles POST /api/key-points.
func (h *StudyHandler) KeyPoints(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	var req KeyPointsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	points := h.study.KeyPoints(r.Context(), req.Text, req.Max)
	shared.RespondWithJSON(w, r, http.StatusOK, KeyPointsResponse{Points: points})
}

// CreateDeck handles POST /api/decks.
func (h *StudyHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.study.CreateDeck(r.Context(), sessionID, service.DeckRequest{
		Title: req.Title,
		Text:  req.Text,
		Count: req.Count,
		Kinds: req.Kinds,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	log.Debug("deck created via API", slog.String("deck_id", result.Deck.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// ListDecks handles GET /api/decks.
func (h *StudyHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	decks, err := h.study.ListDecks(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeckListResponse{Decks: decks})
}

// GetDeck handles GET /api/decks/{id}.
func (h *StudyHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	deck, err := h.study.GetDeck(r.Context(), sessionID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// GenerateQuiz handles POST /api/quizzes.
func (h *StudyHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	var req QuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	items, err := h.study.GenerateQuiz(r.Context(), service.QuizRequest{
		Text:       req.Text,
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Kinds:      req.Kinds,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizResponse{Items: items})
}

// GradeQuiz handles POST /api/quizzes/grade.
func (h *StudyHandler) GradeQuiz(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req GradeQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.study.GradeQuiz(r.Context(), sessionID, req.Submissions)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to grade quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Report handles POST /api/reports.
func (h *StudyHandler) Report(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req ReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rep, err := h.study.Report(r.Context(), sessionID, service.ReportRequest{
		Title: req.Title,
		Rows:  req.Rows,
		TopN:  req.TopN,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build report")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, rep)
}
