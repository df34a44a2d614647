package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrInsufficientContent is returned when the text yields no usable
	// sentence or no keyword.
	ErrInsufficientContent = errors.New("not enough content")

	// ErrInvalidCount is returned when a requested item count is not positive.
	ErrInvalidCount = errors.New("count must be positive")

	// ErrUnknownFocus is returned for a summary focus that has no trigger list.
	ErrUnknownFocus = errors.New("unknown summary focus")
)

// User-visible placeholders for the degraded results.
const (
	NotEnoughContentMessage = "Not enough content to generate a summary."
	NoKeyPointsMessage      = "No strong key points found."
)
