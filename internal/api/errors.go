package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/examstats"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// MapErrorToStatusCode maps service and domain errors to HTTP status codes.
// Unknown errors are 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrDeckNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, generation.ErrInsufficientContent),
		errors.Is(err, service.ErrNoCards),
		errors.Is(err, service.ErrNoExamRows),
		errors.Is(err, service.ErrNoSubmissions):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, generation.ErrUnknownFocus),
		errors.Is(err, generation.ErrInvalidCount),
		errors.Is(err, service.ErrMissingAnswer),
		errors.Is(err, session.ErrInvalidEvent),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, examstats.ErrUnsupportedFormat),
		errors.Is(err, examstats.ErrNoHeader),
		errors.Is(err, examstats.ErrNoQuestionColumn),
		errors.Is(err, examstats.ErrNoSheets):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrNotOwned):
		return "This resource belongs to another session"

	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, service.ErrDeckNotFound), errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, service.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, generation.ErrInsufficientContent):
		return "Not enough content to generate study material."
	case errors.Is(err, service.ErrNoCards):
		return "No flashcards could be generated from this text"
	case errors.Is(err, service.ErrNoExamRows):
		return "No usable exam questions"
	case errors.Is(err, service.ErrNoSubmissions):
		return "Quiz has no answers"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrEmptyContent):
		return "Content cannot be empty"
	case errors.Is(err, domain.ErrUnknownKind):
		return "Unknown item kind"
	case errors.Is(err, domain.ErrInvalidDifficulty):
		return "Invalid difficulty"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "Malformed quiz response"
	case errors.Is(err, generation.ErrUnknownFocus):
		return "Unknown summary focus"
	case errors.Is(err, generation.ErrInvalidCount):
		return "Count must be positive"
	case errors.Is(err, service.ErrMissingAnswer):
		return "Review needs either correct or guess"
	case errors.Is(err, session.ErrInvalidEvent):
		return "Invalid session event"
	case errors.Is(err, examstats.ErrUnsupportedFormat):
		return "Unsupported exam file format"
	case errors.Is(err, examstats.ErrNoHeader),
		errors.Is(err, examstats.ErrNoQuestionColumn),
		errors.Is(err, examstats.ErrNoSheets):
		return "Exam file needs a header row with a question column"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message of unmapped errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a validator error into "Invalid <Field>:
// <reason>" without exposing struct names.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Key: 'SummaryRequest.Text' Error:Field validation for 'Text' failed on the 'required' tag
	if strings.Contains(errMsg, "Field validation") {
		_, detail, found := strings.Cut(errMsg, "Error:")
		if found {
			fieldParts := strings.Split(detail, "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				if len(fieldParts) >= 5 && fieldParts[3] != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fieldParts[3]))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gt", "gte":
		return "too small"
	case "max", "lt", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
