package api

import (
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/examstats"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/session"
)

// CreateSessionResponse carries the token of a new anonymous session.
type CreateSessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Session   *session.State `json:"session"`
}

// SessionResponse is the session state with its level progress.
type SessionResponse struct {
	*session.State
	Threshold int `json:"threshold"`
	Progress  int `json:"progress"`
}

// RecommendationsResponse lists study suggestions.
type RecommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
	DueCount        int      `json:"due_count"`
}

// NotificationsResponse lists the events queued for the session.
type NotificationsResponse struct {
	Events []*events.Event `json:"events"`
}

// SummaryRequest asks for a summary.
type SummaryRequest struct {
	Text    string           `json:"text" validate:"required,max=200000"`
	Bullets int              `json:"bullets" validate:"gte=0,lte=50"`
	Focus   generation.Focus `json:"focus" validate:"omitempty,oneof=concepts definitions examples processes"`
}

// KeyPointsRequest asks for key points.
type KeyPointsRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
	Max  int    `json:"max" validate:"gte=0,lte=50"`
}

// KeyPointsResponse lists key points.
type KeyPointsResponse struct {
	Points []generation.KeyPoint `json:"points"`
}

// CreateDeckRequest asks for a flashcard deck.
type CreateDeckRequest struct {
	Title string        `json:"title" validate:"max=200"`
	Text  string        `json:"text" validate:"required,max=200000"`
	Count int           `json:"count" validate:"gte=0,lte=100"`
	Kinds []domain.Kind `json:"kinds" validate:"omitempty,dive,oneof=definition example explanation process review fill_blank true_false"`
}

// DeckListResponse lists the decks of the session.
type DeckListResponse struct {
	Decks []*domain.Deck `json:"decks"`
}

// QuizRequest asks for a quiz.
type QuizRequest struct {
	Text       string            `json:"text" validate:"required,max=200000"`
	Count      int               `json:"count" validate:"gte=0,lte=100"`
	Difficulty domain.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Kinds      []domain.Kind     `json:"kinds" validate:"omitempty,dive,oneof=multiple_choice true_false fill_blank matching"`
}

// QuizResponse lists generated quiz items.
type QuizResponse struct {
	Items []domain.QuizItem `json:"items"`
}

// GradeQuizRequest submits answered quiz items for grading.
type GradeQuizRequest struct {
	Submissions []domain.Submission `json:"submissions" validate:"required,min=1,max=200"`
}

// ReviewCardRequest answers one flashcard, either by self-assessment or
// with a typed guess.
type ReviewCardRequest struct {
	Correct *bool  `json:"correct"`
	Guess   string `json:"guess" validate:"max=2000"`
}

// ExamAnalysisRequest submits past exam questions.
type ExamAnalysisRequest struct {
	Rows []examstats.Row `json:"rows" validate:"required,min=1,max=10000,dive"`
	TopN int             `json:"top_n" validate:"gte=0,lte=100"`
}

// ReportRequest asks for a study report. Rows are optional.
type ReportRequest struct {
	Title string          `json:"title" validate:"max=200"`
	Rows  []examstats.Row `json:"rows" validate:"max=10000,dive"`
	TopN  int             `json:"top_n" validate:"gte=0,lte=100"`
}
