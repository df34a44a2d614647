package generation

import (
	"html"
	"strings"

	"github.com/phrazzld/scry-study/internal/nlp"
)

// Category classifies a key point by the phrasing of its sentence.
type Category string

// Key point categories, in matching order.
const (
	CategoryNone       Category = ""
	CategoryDefinition Category = "definition"
	CategoryExample    Category = "example"
	CategoryProcess    Category = "process"
	CategoryComparison Category = "comparison"
	CategoryConclusion Category = "conclusion"
)

var categoryTriggers = []struct {
	category Category
	triggers []string
}{
	{CategoryDefinition, []string{"defined as", "refers to", "means", "is a", "is an"}},
	{CategoryExample, []string{"for example", "for instance", "such as", "like", "illustrated by"}},
	{CategoryProcess, []string{"first", "second", "third", "finally", "next", "then", "step"}},
	{CategoryComparison, []string{"similar", "different", "whereas", "while", "however", "in contrast"}},
	{CategoryConclusion, []string{"therefore", "thus", "hence", "consequently", "as a result"}},
}

// Marker returns the symbol shown in front of a point of this category.
func (c Category) Marker() string {
	switch c {
	case CategoryDefinition:
		return "📝"
	case CategoryExample:
		return "💡"
	case CategoryProcess:
		return "🔄"
	case CategoryComparison:
		return "⚖️"
	case CategoryConclusion:
		return "✅"
	default:
		return "📌"
	}
}

// KeyPoint is one HTML-escaped sentence with its category.
type KeyPoint struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// String renders the point with its category marker.
func (p KeyPoint) String() string {
	return p.Category.Marker() + " " + p.Text
}

const (
	keyPointKeywordCount = 25
	keyPointMinScore     = 2
	keyPointCategoryBump = 2
	keyPointMinWords     = 10
	keyPointMaxWords     = 30
	keyPointDefaultMax   = 8
)

func classify(lower string) Category {
	for _, c := range categoryTriggers {
		if containsAny(lower, c.triggers) {
			return c.category
		}
	}
	return CategoryNone
}

func (g *heuristicGenerator) KeyPoints(text string, maxPoints int) []KeyPoint {
	if maxPoints <= 0 {
		maxPoints = keyPointDefaultMax
	}

	keywords := nlp.KeywordSet(text, keyPointKeywordCount)

	var points []KeyPoint
	for _, sent := range nlp.SegmentSentences(text) {
		if len(points) >= maxPoints {
			break
		}

		words := nlp.SegmentWords(sent)
		score := 0
		for _, w := range words {
			if _, ok := keywords[w]; ok {
				score++
			}
		}

		category := classify(strings.ToLower(sent))
		if category != CategoryNone {
			score += keyPointCategoryBump
		}

		if score >= keyPointMinScore && len(words) > keyPointMinWords && len(words) < keyPointMaxWords {
			points = append(points, KeyPoint{
				Category: category,
				Text:     html.EscapeString(strings.TrimSpace(sent)),
			})
		}
	}

	if len(points) == 0 {
		return []KeyPoint{{Category: CategoryNone, Text: NoKeyPointsMessage}}
	}

	return points
}
