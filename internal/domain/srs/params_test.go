package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.Equal(t, 2.5, params.InitialEaseFactor)
	assert.Equal(t, 1.3, params.MinEaseFactor)
	assert.Equal(t, 0.2, params.EaseDecay)
	assert.Equal(t, 1, params.FirstInterval)
	assert.Equal(t, 6, params.SecondInterval)
	assert.Equal(t, 100.0, params.DuePriority)
	assert.Equal(t, 50.0, params.NewItemPriority)
	assert.Equal(t, 3, params.ShortlistSize)
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{SecondInterval: 4, ShortlistSize: 5})
	assert.Equal(t, 4, params.SecondInterval)
	assert.Equal(t, 5, params.ShortlistSize)
	assert.Equal(t, 1, params.FirstInterval, "unset values keep defaults")

	params = NewParams(ParamsConfig{MinEaseFactor: 0.5})
	assert.Equal(t, 1.3, params.MinEaseFactor, "a floor at or below 1.0 is ignored")
}
