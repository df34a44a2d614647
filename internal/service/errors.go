package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// The API layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource belongs to a different session than
	// the one making the request.
	ErrNotOwned = errors.New("resource is owned by another session")

	// ErrSessionNotFound indicates the session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDeckNotFound indicates the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the card is not part of the deck.
	ErrCardNotFound = errors.New("card not found")

	// ErrNoCards indicates the text produced no card of the requested kinds.
	ErrNoCards = errors.New("no flashcards could be generated")

	// ErrMissingAnswer indicates a review carried neither a self-assessment
	// nor a typed guess.
	ErrMissingAnswer = errors.New("review needs either correct or guess")
)

// ServiceError wraps errors from a service operation with context.
type ServiceError struct {
	// Service is the service that failed (e.g., "study", "review")
	Service string
	// Operation is the operation that failed (e.g., "create_deck")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
