package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Deck validation errors
var (
	ErrDeckIDEmpty        = errors.New("deck ID cannot be empty")
	ErrDeckSessionIDEmpty = errors.New("deck session ID cannot be empty")
	ErrDeckCardsEmpty     = errors.New("deck must contain at least one card")
)

// Deck is a set of flashcards generated from one text for one session.
type Deck struct {
	ID        uuid.UUID   `json:"id"`
	SessionID uuid.UUID   `json:"session_id"`
	Title     string      `json:"title"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewDeck creates a deck with a fresh ID.
func NewDeck(sessionID uuid.UUID, title string, cards []Flashcard) (*Deck, error) {
	deck := &Deck{
		ID:        uuid.New(),
		SessionID: sessionID,
		Title:     title,
		Cards:     cards,
		CreatedAt: time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks the deck and every card in it.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.SessionID == uuid.Nil {
		return ErrDeckSessionIDEmpty
	}

	if len(d.Cards) == 0 {
		return ErrDeckCardsEmpty
	}

	for i := range d.Cards {
		if err := d.Cards[i].Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}

	return nil
}

// Card returns the card with the given ID.
func (d *Deck) Card(id uuid.UUID) (Flashcard, bool) {
	for _, c := range d.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Flashcard{}, false
}
