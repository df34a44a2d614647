package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// DeckStore implements store.DeckStore on SQLite.
type DeckStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewDeckStore creates a deck store on a database or transaction.
func NewDeckStore(db sqlx.ExtContext, logger *slog.Logger) *DeckStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*DeckStore)(nil)

type deckRow struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	Title     string    `db:"title"`
	CreatedAt int64     `db:"created_at"`
}

type cardRow struct {
	ID       uuid.UUID `db:"id"`
	Kind     string    `db:"kind"`
	Question string    `db:"question"`
	Answer   string    `db:"answer"`
}

// Create implements store.DeckStore.Create.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return store.NewStoreError("deck", "create", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decks (id, session_id, title, created_at) VALUES (?, ?, ?, ?)`,
		deck.ID, deck.SessionID, deck.Title, toMicros(deck.CreatedAt))
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return mapUniqueViolation(err, store.ErrDeckExists)
	}

	for i, card := range deck.Cards {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO cards (id, deck_id, position, kind, question, answer) VALUES (?, ?, ?, ?, ?, ?)`,
			card.ID, deck.ID, i, string(card.Kind), card.Question, card.Answer)
		if err != nil {
			log.Error("failed to create card",
				slog.String("error", err.Error()),
				slog.String("deck_id", deck.ID.String()),
				slog.Int("position", i))
			return MapError(err)
		}
	}
	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	var row deckRow
	err := sqlx.GetContext(ctx, s.db, &row,
		`SELECT id, session_id, title, created_at FROM decks WHERE id = ?`, id)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}
	return s.load(ctx, row)
}

func (s *DeckStore) load(ctx context.Context, row deckRow) (*domain.Deck, error) {
	var cards []cardRow
	err := sqlx.SelectContext(ctx, s.db, &cards,
		`SELECT id, kind, question, answer FROM cards WHERE deck_id = ? ORDER BY position`, row.ID)
	if err != nil {
		return nil, MapError(err)
	}

	deck := &domain.Deck{
		ID:        row.ID,
		SessionID: row.SessionID,
		Title:     row.Title,
		CreatedAt: fromMicros(row.CreatedAt),
		Cards:     make([]domain.Flashcard, len(cards)),
	}
	for i, c := range cards {
		deck.Cards[i] = domain.Flashcard{
			ID:       c.ID,
			Kind:     domain.Kind(c.Kind),
			Question: c.Question,
			Answer:   c.Answer,
		}
	}
	return deck, nil
}

// ListBySession implements store.DeckStore.ListBySession.
func (s *DeckStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Deck, error) {
	var rows []deckRow
	err := sqlx.SelectContext(ctx, s.db, &rows,
		`SELECT id, session_id, title, created_at FROM decks
		WHERE session_id = ? ORDER BY created_at DESC, id`, sessionID)
	if err != nil {
		return nil, MapError(err)
	}

	decks := make([]*domain.Deck, 0, len(rows))
	for _, row := range rows {
		deck, err := s.load(ctx, row)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, nil
}
