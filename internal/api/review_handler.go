package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/service"
)

// ReviewHandler serves spaced-repetition practice over decks.
type ReviewHandler struct {
	review service.ReviewService
	logger *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(review service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		review: review,
		logger: logger.With(slog.String("handler", "review_handler")),
	}
}

// NextCard handles GET /api/decks/{id}/next.
func (h *ReviewHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	next, err := h.review.NextCard(r.Context(), sessionID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, next)
}

// ReviewCard handles POST /api/decks/{id}/cards/{cardID}/review.
func (h *ReviewHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReviewCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.review.ReviewCard(r.Context(), sessionID, deckID, cardID, service.ReviewAnswer{
		Correct: req.Correct,
		Guess:   req.Guess,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
