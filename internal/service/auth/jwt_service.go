package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and checks the bearer tokens that identify an anonymous
// learner session.
type JWTService interface {
	// GenerateToken creates a signed token for the session.
	GenerateToken(ctx context.Context, sessionID uuid.UUID) (string, error)

	// ValidateToken checks the signature and time claims of tokenString.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a session token.
type Claims struct {
	SessionID uuid.UUID `json:"sid,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
