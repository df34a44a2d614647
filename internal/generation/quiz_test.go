package generation

import (
	"strings"
	"testing"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matchText = "Entropy is a measure of disorder in a closed system. " +
	"Enthalpy is the total heat content of a system. " +
	"Osmosis is the movement of water through a membrane. " +
	"Diffusion is the spreading of particles from high to low concentration."

func TestQuiz_Validation(t *testing.T) {
	t.Parallel()
	g := seededGenerator(1)

	_, err := g.Quiz(studyText, 4, domain.Difficulty("brutal"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDifficulty)

	_, err = g.Quiz(studyText, 4, domain.DifficultyEasy, []domain.Kind{domain.KindDefinition})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	_, err = g.Quiz(studyText, 0, domain.DifficultyEasy, nil)
	assert.ErrorIs(t, err, ErrInvalidCount)

	items, err := g.Quiz("nothing", 4, domain.DifficultyEasy, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestQuiz_ItemsAreValid(t *testing.T) {
	t.Parallel()
	g := seededGenerator(11)

	for _, d := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		for _, n := range []int{1, 4, 8, 20} {
			items, err := g.Quiz(studyText+" "+matchText, n, d, nil)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(items), n)
			assert.NotEmpty(t, items)
			for i := range items {
				assert.NoError(t, items[i].Validate(), "%s n=%d item %d", d, n, i)
				assert.True(t, items[i].Kind.IsQuizKind())
				assert.NotEmpty(t, items[i].Explanation)
			}
		}
	}
}

func TestQuiz_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := seededGenerator(99).Quiz(studyText, 8, domain.DifficultyMedium, nil)
	require.NoError(t, err)
	b, err := seededGenerator(99).Quiz(studyText, 8, domain.DifficultyMedium, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestQuiz_MultipleChoiceHard(t *testing.T) {
	t.Parallel()
	g := NewHeuristic(fixedRand{}, WithIDSource(sequentialIDs()))

	items, err := g.Quiz(studyText, 2, domain.DifficultyHard, []domain.Kind{domain.KindMultipleChoice})
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, []string{"photosynthesis", "process", "plants", "energy"}, first.Options)
	assert.Equal(t, 3, first.AnswerIndex)
	assert.Equal(t, "energy", first.CorrectOption())
	assert.Equal(t,
		"What term should fill the blank?\n\"Photosynthesis is the process plants use to convert light _____ into chemical _____\"",
		first.Question)
	assert.Equal(t, "The sentence emphasizes 'energy', making it the best choice.", first.Explanation)
}

func TestQuiz_MultipleChoicePhrasing(t *testing.T) {
	t.Parallel()
	g := NewHeuristic(fixedRand{}, WithIDSource(sequentialIDs()))

	easy, err := g.Quiz(studyText, 1, domain.DifficultyEasy, []domain.Kind{domain.KindMultipleChoice})
	require.NoError(t, err)
	require.Len(t, easy, 1)
	assert.True(t, strings.HasPrefix(easy[0].Question, "What keyword matches this sentence?\n\"Photosynthesis"))

	medium, err := g.Quiz(studyText, 1, domain.DifficultyMedium, []domain.Kind{domain.KindMultipleChoice})
	require.NoError(t, err)
	require.Len(t, medium, 1)
	assert.True(t, strings.HasPrefix(medium[0].Question, "Identify the main concept in:\n"))
}

func TestQuiz_TrueFalse(t *testing.T) {
	t.Parallel()
	sentence := "Higher temperatures increase the reaction rate of enzymes."

	// The fixed float is above one half, so medium statements are falsified.
	g := NewHeuristic(fixedRand{f: 0.9}, WithIDSource(sequentialIDs()))
	items, err := g.Quiz(sentence, 1, domain.DifficultyMedium, []domain.Kind{domain.KindTrueFalse})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "lower temperatures increase the reaction rate of enzymes", items[0].Question)
	assert.Equal(t, []string{"True", "False"}, items[0].Options)
	assert.Equal(t, 1, items[0].AnswerIndex)
	assert.Equal(t, "The statement is false based on the text.", items[0].Explanation)

	// Easy statements are always the original sentence.
	items, err = g.Quiz(studyText, 8, domain.DifficultyEasy, []domain.Kind{domain.KindTrueFalse})
	require.NoError(t, err)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.Equal(t, 0, it.AnswerIndex)
		assert.Equal(t, "The statement is true based on the text.", it.Explanation)
	}

	// Below one half the statement is kept.
	g = NewHeuristic(fixedRand{f: 0.1}, WithIDSource(sequentialIDs()))
	items, err = g.Quiz(sentence, 1, domain.DifficultyHard, []domain.Kind{domain.KindTrueFalse})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Higher temperatures increase the reaction rate of enzymes", items[0].Question)
	assert.Equal(t, 0, items[0].AnswerIndex)
}

func TestQuiz_FillBlankHint(t *testing.T) {
	t.Parallel()
	g := NewHeuristic(fixedRand{}, WithIDSource(sequentialIDs()))

	items, err := g.Quiz(studyText, 1, domain.DifficultyEasy, []domain.Kind{domain.KindFillBlank})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Photosynthesis", items[0].Answer)
	assert.Equal(t,
		"Fill in the blank: _____ is the process plants use to convert light energy into chemical energy (Hint: The word starts with 'P')",
		items[0].Question)

	items, err = g.Quiz(studyText, 1, domain.DifficultyHard, []domain.Kind{domain.KindFillBlank})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotContains(t, items[0].Question, "Hint")
}

func TestQuiz_Matching(t *testing.T) {
	t.Parallel()
	g := seededGenerator(21)

	want := map[string]string{
		"Entropy":   "a measure of disorder in a closed system",
		"Enthalpy":  "the total heat content of a system",
		"Osmosis":   "the movement of water through a membrane",
		"Diffusion": "the spreading of particles from high to low concentration",
	}

	items, err := g.Quiz(matchText, 1, domain.DifficultyMedium, []domain.Kind{domain.KindMatching})
	require.NoError(t, err)
	require.Len(t, items, 1)

	m := items[0]
	require.NoError(t, m.Validate())
	require.Len(t, m.Terms, 4)
	for j, term := range m.Terms {
		assert.Equal(t, want[term], m.Definitions[m.AnswerMap[j]], term)
	}
	assert.True(t, strings.HasPrefix(m.Question, "Match the terms with their definitions:\n\n1. "))
	assert.Contains(t, m.Question, "\n\nA. ")
	assert.Contains(t, m.Question, "...")
}

func TestDefinitionPairs(t *testing.T) {
	t.Parallel()

	pairs := definitionPairs([]string{
		"Heat defined as energy in transit between bodies",
		"The very long subject of this sentence is too long to count",
		"Gravity is weak",
		"Light is an electromagnetic wave",
	})
	require.Len(t, pairs, 2)
	assert.Equal(t, definitionPair{term: "Heat", desc: "energy in transit between bodies"}, pairs[0])
	assert.Equal(t, definitionPair{term: "Light", desc: "an electromagnetic wave"}, pairs[1])
}

func TestMaskWord(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "_____ drives _____ flow", maskWord("Energy drives energy flow", "energy"))
	assert.Equal(t, "a+b stays", maskWord("a+b stays", "c+d"))
}
