package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
)

// SessionHandler serves anonymous learner sessions.
type SessionHandler struct {
	sessions      service.SessionService
	jwtService    auth.JWTService
	inbox         *events.Inbox
	tokenLifetime time.Duration
	logger        *slog.Logger
}

// NewSessionHandler creates a SessionHandler. The inbox may be nil, in which
// case the notifications endpoint always returns an empty list.
func NewSessionHandler(
	sessions service.SessionService,
	jwtService auth.JWTService,
	inbox *events.Inbox,
	authConfig *config.AuthConfig,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		sessions:      sessions,
		jwtService:    jwtService,
		inbox:         inbox,
		tokenLifetime: time.Duration(authConfig.TokenLifetimeMinutes) * time.Minute,
		logger:        logger.With(slog.String("handler", "session_handler")),
	}
}

// CreateSession handles POST /api/sessions.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	state, err := h.sessions.Create(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), state.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	log.Info("session created", slog.String("session_id", state.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateSessionResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.tokenLifetime),
		Session:   state,
	})
}

// GetSession handles GET /api/session.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	state, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
		State:     state,
		Threshold: state.Threshold(),
		Progress:  state.Progress(),
	})
}

// DailyChallenge handles POST /api/session/daily-challenge. Completing it a
// second time on the same day is not an error; the response simply carries
// no reward.
func (h *SessionHandler) DailyChallenge(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	outcome, err := h.sessions.DailyChallenge(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete daily challenge")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// Recommendations handles GET /api/session/recommendations.
func (h *SessionHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	recs, err := h.sessions.Recommendations(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build recommendations")
		return
	}
	due, err := h.sessions.DueCount(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build recommendations")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RecommendationsResponse{
		Recommendations: recs,
		DueCount:        due,
	})
}

// Notifications handles GET /api/session/notifications. Queued events are
// returned once and then forgotten.
func (h *SessionHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	evs := []*events.Event{}
	if h.inbox != nil {
		evs = h.inbox.Drain(sessionID)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NotificationsResponse{Events: evs})
}
