// Package main runs the study API server. It serves summaries, flashcard
// decks, quizzes, exam analysis and study reports for anonymous learner
// sessions over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	configDir := flag.String("config-dir", ".", "directory holding config.yaml and .env")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configDir, *migrateOnly); err != nil {
		log.Printf("server failed: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, builds the application and serves until ctx is
// cancelled.
func run(ctx context.Context, configDir string, migrateOnly bool) error {
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"store_driver", cfg.Store.Driver,
		"reminder_enabled", cfg.Reminder.Enabled)

	db, err := openStore(ctx, cfg.Store, l)
	if err != nil {
		return err
	}

	if migrateOnly {
		l.Info("migrations applied, exiting")
		return db.Close()
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return err
	}

	return app.Run(ctx)
}
