// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrUnknownKind is returned when an item kind is not one of the known kinds.
	ErrUnknownKind = errors.New("unknown item kind")

	// ErrInvalidDifficulty is returned when a quiz difficulty is not easy, medium or hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrMalformedResponse is returned when a quiz response does not fit the item it answers.
	ErrMalformedResponse = errors.New("malformed quiz response")
)
