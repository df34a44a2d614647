package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/scry-study/internal/store"
)

// Open connects to PostgreSQL, configures the pool and pings the server.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DB bundles the PostgreSQL stores and runs transactions across them.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDB wraps an open connection pool. If logger is nil, the default
// logger is used.
func NewDB(db *sql.DB, logger *slog.Logger) *DB {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{db: db, logger: logger}
}

// Stores returns stores that run each statement on its own.
func (d *DB) Stores() store.Stores {
	return newStores(d.db, d.logger)
}

// WithinTx implements store.Transactor.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Stores) error) error {
	return store.RunInTransaction(ctx, d.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newStores(tx, d.logger))
	})
}

var _ store.Transactor = (*DB)(nil)

func newStores(db store.DBTX, logger *slog.Logger) store.Stores {
	return store.Stores{
		Decks:    NewPostgresDeckStore(db, logger),
		Progress: NewPostgresProgressStore(db, logger),
		Sessions: NewPostgresSessionStore(db, logger),
	}
}
