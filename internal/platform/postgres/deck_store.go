package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// Create implements store.DeckStore.Create.
// The deck row and its cards are written with separate statements, so
// callers wanting atomicity run it inside a transaction.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return store.NewStoreError("deck", "create", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (id, session_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`, deck.ID, deck.SessionID, deck.Title, deck.CreatedAt)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapUniqueViolation(err, store.ErrDeckExists)
	}

	for i, card := range deck.Cards {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO cards (id, deck_id, position, kind, question, answer)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, card.ID, deck.ID, i, string(card.Kind), card.Question, card.Answer)
		if err != nil {
			log.Error("failed to create card",
				slog.String("error", err.Error()),
				slog.String("deck_id", deck.ID.String()),
				slog.Int("position", i))
			return MapError(err)
		}
	}

	log.Debug("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("cards", len(deck.Cards)))
	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, title, created_at
		FROM decks
		WHERE id = $1
	`, id).Scan(&deck.ID, &deck.SessionID, &deck.Title, &deck.CreatedAt)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}

	cards, err := s.cards(ctx, id)
	if err != nil {
		return nil, err
	}
	deck.Cards = cards

	return &deck, nil
}

func (s *PostgresDeckStore) cards(ctx context.Context, deckID uuid.UUID) ([]domain.Flashcard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, question, answer
		FROM cards
		WHERE deck_id = $1
		ORDER BY position
	`, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.Flashcard
	for rows.Next() {
		var c domain.Flashcard
		var kind string
		if err := rows.Scan(&c.ID, &kind, &c.Question, &c.Answer); err != nil {
			return nil, MapError(err)
		}
		c.Kind = domain.Kind(kind)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// ListBySession implements store.DeckStore.ListBySession.
func (s *PostgresDeckStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Deck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id
		FROM decks
		WHERE session_id = $1
		ORDER BY created_at DESC, id
	`, sessionID)
	if err != nil {
		return nil, MapError(err)
	}

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, MapError(err)
	}
	_ = rows.Close()

	decks := make([]*domain.Deck, 0, len(ids))
	for _, id := range ids {
		deck, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, nil
}
