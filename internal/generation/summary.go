package generation

import (
	"errors"
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/scry-study/internal/nlp"
)

// Focus biases summary selection towards one kind of sentence.
type Focus string

// Summary focuses. FocusNone applies no bias.
const (
	FocusNone        Focus = ""
	FocusConcepts    Focus = "concepts"
	FocusDefinitions Focus = "definitions"
	FocusExamples    Focus = "examples"
	FocusProcesses   Focus = "processes"
)

var focusTriggers = map[Focus][]string{
	FocusConcepts:    {"concept", "idea", "theory", "principle", "notion", "framework"},
	FocusDefinitions: {"definition", "defined as", "means", "refers to", "is", "are"},
	FocusExamples:    {"example", "for instance", "such as", "like", "illustration"},
	FocusProcesses:   {"process", "step", "procedure", "method", "approach", "technique"},
}

// Validate checks that f is empty or a known focus.
func (f Focus) Validate() error {
	if f == FocusNone {
		return nil
	}
	if _, ok := focusTriggers[f]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFocus, string(f))
	}
	return nil
}

const (
	summaryKeywordCount  = 30
	summaryMinWords      = 8
	summaryFullLength    = 15.0
	summaryFocusBoost    = 1.5
	summaryKeywordBoost  = 0.2
	summaryHeader        = "### 📌 Smart Summary"
	summaryDefaultBullet = 6
)

// Summary holds the selected sentences in the order they appear in the text.
type Summary struct {
	Sentences []string `json:"sentences"`
}

// Bullets returns the sentences capitalised and HTML-escaped.
func (s *Summary) Bullets() []string {
	bullets := make([]string, len(s.Sentences))
	for i, sent := range s.Sentences {
		bullets[i] = html.EscapeString(capitalize(strings.TrimSpace(sent)))
	}
	return bullets
}

// Markdown renders the summary as a headed bullet list.
func (s *Summary) Markdown() string {
	lines := make([]string, 0, len(s.Sentences)+1)
	lines = append(lines, summaryHeader)
	for _, b := range s.Bullets() {
		lines = append(lines, "- "+b)
	}
	return strings.Join(lines, "\n")
}

type scoredSentence struct {
	index int
	text  string
	score float64
}

func (g *heuristicGenerator) Summarize(text string, bullets int, focus Focus) (*Summary, error) {
	if err := focus.Validate(); err != nil {
		return nil, err
	}
	if bullets <= 0 {
		bullets = summaryDefaultBullet
	}

	sentences := nlp.SegmentSentences(text)
	keywords := nlp.KeywordSet(text, summaryKeywordCount)
	if len(sentences) == 0 || len(keywords) == 0 {
		return nil, ErrInsufficientContent
	}

	triggers := focusTriggers[focus]

	var scored []scoredSentence
	for i, sent := range sentences {
		words := nlp.SegmentWords(sent)

		// Every ranked keyword occurs once in the ranking, so each weighs 1.
		hits := 0
		for _, w := range words {
			if _, ok := keywords[w]; ok {
				hits++
			}
		}
		score := float64(hits)

		if len(triggers) > 0 && containsAny(strings.ToLower(sent), triggers) {
			score *= summaryFocusBoost
		}
		if hits > 1 {
			score *= 1 + summaryKeywordBoost*float64(hits)
		}
		score *= math.Min(1, float64(len(words))/summaryFullLength)

		if score > 0 && len(words) >= summaryMinWords {
			scored = append(scored, scoredSentence{index: i, text: sent, score: score})
		}
	}

	if len(scored) == 0 {
		return nil, ErrInsufficientContent
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > bullets {
		scored = scored[:bullets]
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].index < scored[j].index
	})

	summary := &Summary{Sentences: make([]string, len(scored))}
	for i, s := range scored {
		summary.Sentences[i] = s.text
	}

	return summary, nil
}

// SummaryOrPlaceholder renders s, or the not-enough-content message when err
// reports insufficient content.
func SummaryOrPlaceholder(s *Summary, err error) (string, error) {
	if errors.Is(err, ErrInsufficientContent) {
		return NotEnoughContentMessage, nil
	}
	if err != nil {
		return "", err
	}
	return s.Markdown(), nil
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
