package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-study/internal/api"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/reminder"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
)

// application holds the shared dependencies of the server so that they can
// be released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *appStore

	jwtService auth.JWTService
	emitter    *events.InMemoryEventEmitter
	inbox      *events.Inbox

	sessions service.SessionService
	study    service.StudyService
	review   service.ReviewService

	sweeper *reminder.Sweeper
}

// newApplication wires services, event handling and the reminder sweeper
// on top of an open store.
func newApplication(cfg *config.Config, logger *slog.Logger, db *appStore) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.inbox = events.NewInbox(events.DefaultInboxSize)
	app.emitter.RegisterHandler(app.inbox, events.TypeNotification, events.TypeReviewDue)
	app.emitter.RegisterHandler(events.HandlerFunc(func(ctx context.Context, e *events.Event) error {
		var due events.ReviewDuePayload
		if err := e.UnmarshalPayload(&due); err != nil {
			return err
		}
		logger.Info("reviews due", "session_id", e.SessionID, "due_count", due.DueCount)
		return nil
	}), events.TypeReviewDue)

	gen := generation.NewHeuristic(generation.NewLockedRand(0))

	app.sessions, err = service.NewSessionService(db, app.emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	app.study, err = service.NewStudyService(db, gen, cfg.Generation, app.emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	app.review, err = service.NewReviewService(db, srs.NewDefaultService(), app.emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	if cfg.Reminder.Enabled {
		interval := time.Duration(cfg.Reminder.IntervalMinutes) * time.Minute
		app.sweeper, err = reminder.NewSweeper(db.Stores().Progress, app.emitter, interval, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create reminder sweeper: %w", err)
		}
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// handler builds the HTTP API.
func (app *application) handler() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Sessions:   app.sessions,
		Study:      app.study,
		Review:     app.review,
		JWTService: app.jwtService,
		Inbox:      app.inbox,
		Auth:       app.config.Auth,
		RateLimit:  app.config.RateLimit,
		Logger:     app.logger,
	})
}

// Run serves HTTP and runs the reminder sweeper until ctx is cancelled,
// then shuts both down and releases the store.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.sweeper != nil {
		if err := app.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start reminder sweeper: %w", err)
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := serve(ctx, server, app.logger); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background work and closes the store.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database connection", "error", err)
	}

	app.logger.Info("application shutdown completed")
}
