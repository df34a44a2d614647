package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/session"
)

// SessionStore defines the interface for learner session persistence.
type SessionStore interface {
	// Create saves a new session.
	// Returns ErrSessionExists if the ID is already in use.
	Create(ctx context.Context, state *session.State) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, id uuid.UUID) (*session.State, error)

	// Update replaces the stored state of an existing session.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, state *session.State) error
}
