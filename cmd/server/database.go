package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/memory"
	"github.com/phrazzld/scry-study/internal/platform/postgres"
	"github.com/phrazzld/scry-study/internal/platform/sqlite"
	"github.com/phrazzld/scry-study/internal/service"
)

// appStore is a migrated store together with the function that releases it.
type appStore struct {
	service.Store
	close func() error
}

// Close releases the underlying connection, if any.
func (s *appStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openStore opens and migrates the backend named by cfg.Driver.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*appStore, error) {
	log := logger.With(slog.String("store_driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return &appStore{Store: memory.NewDB(logger)}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database connection established")
		return &appStore{Store: sqlite.NewDB(db, logger), close: db.Close}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database connection established")
		return &appStore{Store: postgres.NewDB(db, logger), close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
