package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// DeckStore defines the interface for deck persistence. A deck is stored
// together with its cards and is immutable once created.
type DeckStore interface {
	// Create saves a deck and all of its cards.
	// Returns ErrInvalidEntity if the deck fails validation and
	// ErrDeckExists if its ID is already in use.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck with its cards in their original order.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListBySession returns the decks of a session, newest first.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Deck, error)
}
