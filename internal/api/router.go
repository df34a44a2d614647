package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-study/internal/api/middleware"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
)

// maxBodyBytes bounds request bodies, which may be spreadsheet uploads.
const maxBodyBytes = 8 << 20

// RouterDeps are the collaborators the HTTP API is built from.
type RouterDeps struct {
	Sessions   service.SessionService
	Study      service.StudyService
	Review     service.ReviewService
	JWTService auth.JWTService
	Inbox      *events.Inbox
	Auth       config.AuthConfig
	RateLimit  config.RateLimitConfig
	Logger     *slog.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTraceMiddleware(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestSize(maxBodyBytes))

	sessionHandler := NewSessionHandler(deps.Sessions, deps.JWTService, deps.Inbox, &deps.Auth, log)
	studyHandler := NewStudyHandler(deps.Study, log)
	reviewHandler := NewReviewHandler(deps.Review, log)

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTService)
	limiter := middleware.NewRateLimiter(deps.RateLimit.RPS, deps.RateLimit.Burst)

	r.Route("/api", func(r chi.Router) {
		r.With(limiter.Limit).Post("/sessions", sessionHandler.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(limiter.Limit)

			r.Get("/session", sessionHandler.GetSession)
			r.Post("/session/daily-challenge", sessionHandler.DailyChallenge)
			r.Get("/session/recommendations", sessionHandler.Recommendations)
			r.Get("/session/notifications", sessionHandler.Notifications)

			r.Post("/summaries", studyHandler.Summarize)
			r.Post("/key-points", studyHandler.KeyPoints)

			r.Post("/decks", studyHandler.CreateDeck)
			r.Get("/decks", studyHandler.ListDecks)
			r.Get("/decks/{id}", studyHandler.GetDeck)
			r.Get("/decks/{id}/next", reviewHandler.NextCard)
			r.Post("/decks/{id}/cards/{cardID}/review", reviewHandler.ReviewCard)

			r.Post("/quizzes", studyHandler.GenerateQuiz)
			r.Post("/quizzes/grade", studyHandler.GradeQuiz)

			r.Post("/exam-analysis", studyHandler.AnalyzeExam)
			r.Post("/reports", studyHandler.Report)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
