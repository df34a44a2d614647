package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/pressly/goose/v3"

	// Registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// MemoryDSN opens a private in-memory database.
const MemoryDSN = "file::memory:"

// Open connects to the SQLite database at dsn and enables foreign keys.
// SQLite allows one writer, so the pool is limited to a single connection;
// this also keeps an in-memory database alive for the pool's lifetime.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Migrate applies every pending migration to db.
func Migrate(ctx context.Context, db *sqlx.DB, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		log.Info("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration))
	}
	return nil
}

// DB bundles the SQLite stores and runs transactions across them.
type DB struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewDB wraps an open database. If logger is nil, the default logger is used.
func NewDB(db *sqlx.DB, logger *slog.Logger) *DB {
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
	begin := func(ctx context.Context) (*sqlx.Tx, error) {
		return d.db.BeginTxx(ctx, nil)
	}
	return store.RunInTx(ctx, begin, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, newStores(tx, d.logger))
	})
}

var _ store.Transactor = (*DB)(nil)

func newStores(db sqlx.ExtContext, logger *slog.Logger) store.Stores {
	return store.Stores{
		Decks:    NewDeckStore(db, logger),
		Progress: NewProgressStore(db, logger),
		Sessions: NewSessionStore(db, logger),
	}
}

func toMicros(t time.Time) int64 {
	return t.UnixMicro()
}

func fromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}
