package srs

import "github.com/phrazzld/scry-study/internal/domain"

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Ease factor limits and decay
	InitialEaseFactor float64
	MinEaseFactor     float64
	EaseDecay         float64

	// Intervals for the first two reviews, in days
	FirstInterval  int
	SecondInterval int

	// Selection priorities
	DuePriority           float64
	NewItemPriority       float64
	FuturePriorityCeiling float64
	MinPriority           float64
	ShortlistSize         int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor  float64
	EaseDecay      float64
	FirstInterval  int
	SecondInterval int
	ShortlistSize  int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		InitialEaseFactor: domain.InitialEaseFactor,
		MinEaseFactor:     1.3,
		EaseDecay:         0.2,

		FirstInterval:  1,
		SecondInterval: 6,

		// Overdue items outrank unseen ones, which outrank scheduled ones
		DuePriority:           100,
		NewItemPriority:       50,
		FuturePriorityCeiling: 10,
		MinPriority:           1,
		ShortlistSize:         3,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 1.0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.EaseDecay > 0 {
		params.EaseDecay = config.EaseDecay
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.ShortlistSize > 0 {
		params.ShortlistSize = config.ShortlistSize
	}

	return params
}
