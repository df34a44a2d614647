package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/memory"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

const studyText = `Photosynthesis is the process plants use to convert light energy into chemical energy.
Chlorophyll absorbs red and blue light and gives plants their green colour.
The chemical energy is stored as glucose in the cells of the leaf.
Respiration releases the energy stored in glucose so that cells can do work.
Enzymes are proteins that speed up chemical reactions in living organisms.
Osmosis is the movement of water across a membrane from low to high solute concentration.`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	handler http.Handler
	jwt     auth.JWTService
}

func newTestServer(t *testing.T, limit config.RateLimitConfig) *testServer {
	t.Helper()

	log := quietLogger()
	db := memory.NewDB(log)
	inbox := events.NewInbox(0)
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(inbox)

	authCfg := config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60}
	jwtService, err := auth.NewJWTService(authCfg)
	require.NoError(t, err)

	genCfg := config.GenerationConfig{
		SummaryBullets:    6,
		KeyPoints:         8,
		Flashcards:        6,
		QuizQuestions:     6,
		DefaultDifficulty: "medium",
	}
	gen := generation.NewHeuristic(rand.New(rand.NewSource(3)))

	sessions, err := service.NewSessionService(db, emitter, log)
	require.NoError(t, err)
	study, err := service.NewStudyService(db, gen, genCfg, emitter, log)
	require.NoError(t, err)
	review, err := service.NewReviewService(db,
		srs.NewServiceWithParams(srs.NewDefaultParams(), rand.New(rand.NewSource(5))), emitter, log)
	require.NoError(t, err)

	return &testServer{
		handler: NewRouter(RouterDeps{
			Sessions:   sessions,
			Study:      study,
			Review:     review,
			JWTService: jwtService,
			Inbox:      inbox,
			Auth:       authCfg,
			RateLimit:  limit,
			Logger:     log,
		}),
		jwt: jwtService,
	}
}

func generousLimit() config.RateLimitConfig {
	return config.RateLimitConfig{RPS: 1000, Burst: 1000}
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// newSession creates a session and returns its token.
func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateSessionResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error   string `json:"error"`
		TraceID string `json:"trace_id"`
	}
	decode(t, rec, &resp)
	return resp.Error
}
