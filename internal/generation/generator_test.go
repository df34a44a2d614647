package generation

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const studyText = `Photosynthesis is the process plants use to convert light energy into chemical energy.
Chlorophyll absorbs red and blue light and gives plants their green colour.
The chemical energy is stored as glucose in the cells of the leaf.
For example, a single oak tree can produce hundreds of kilograms of glucose each year.
Respiration releases the energy stored in glucose so that cells can do work.
Animals depend on plants because they eat them to obtain that stored energy.
Without photosynthesis there would be very little oxygen in the atmosphere.
Enzymes are proteins that speed up chemical reactions in living organisms.
Temperature affects enzyme activity, and higher temperatures increase reaction rates up to a limit.
Osmosis is the movement of water across a membrane from low to high solute concentration.`

// fixedRand always picks the first element, never reorders and returns the
// same float.
type fixedRand struct {
	f float64
}

func (r fixedRand) Intn(int) int                { return 0 }
func (r fixedRand) Float64() float64            { return r.f }
func (r fixedRand) Shuffle(int, func(i, j int)) {}

func sequentialIDs() func() uuid.UUID {
	var n uint32
	return func() uuid.UUID {
		n++
		var id uuid.UUID
		binary.BigEndian.PutUint32(id[12:], n)
		return id
	}
}

func seededGenerator(seed int64) Generator {
	return NewHeuristic(rand.New(rand.NewSource(seed)), WithIDSource(sequentialIDs()))
}

func TestNewHeuristic_NilRand(t *testing.T) {
	t.Parallel()

	g := NewHeuristic(nil)
	cards := g.Flashcards(studyText, 3)
	assert.Len(t, cards, 3)
	for _, c := range cards {
		assert.NotEqual(t, uuid.Nil, c.ID)
	}
}

func TestLockedRand(t *testing.T) {
	t.Parallel()

	r := NewLockedRand(7)
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = r.Intn(10)
				_ = r.Float64()
				r.Shuffle(3, func(int, int) {})
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	a, b := NewLockedRand(42), NewLockedRand(42)
	assert.Equal(t, a.Intn(1000), b.Intn(1000))
}

func TestSample(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	items := []string{"a", "b", "c", "d", "e"}

	got := sample(rng, items, 3)
	assert.Len(t, got, 3)
	seen := map[string]bool{}
	for _, s := range got {
		assert.Contains(t, items, s)
		assert.False(t, seen[s], "duplicate %q", s)
		seen[s] = true
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items, "input untouched")
	assert.Len(t, sample(rng, items, 10), 5)
}
