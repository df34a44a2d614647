package generation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/nlp"
)

const (
	quizKeywordCount     = 20
	distractorCount      = 3
	distractorMinLength  = 4
	fillBlankMinWords    = 8
	matchingMaxTermWords = 4
	matchingMinDesc      = 10
	matchingMaxPairs     = 4
	matchingPreview      = 50
)

// antonyms turns a true statement into a false one. Words missing from the
// table are replaced with "unrelated".
var antonyms = map[string]string{
	"increase":  "decrease",
	"decrease":  "increase",
	"important": "insignificant",
	"similar":   "different",
	"cause":     "effect",
	"effect":    "cause",
	"more":      "less",
	"less":      "more",
	"higher":    "lower",
	"lower":     "higher",
}

var trueFalseOptions = []string{domain.AnswerTrue, domain.AnswerFalse}

func (g *heuristicGenerator) Quiz(
	text string,
	n int,
	difficulty domain.Difficulty,
	kinds []domain.Kind,
) ([]domain.QuizItem, error) {
	if err := difficulty.Validate(); err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		kinds = domain.AllQuizKinds()
	}
	for _, k := range kinds {
		if !k.IsQuizKind() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, string(k))
		}
	}
	if n <= 0 {
		return nil, ErrInvalidCount
	}

	sentences := nlp.SegmentSentences(text)
	pool := nlp.Keywords(text, quizKeywordCount)
	if len(sentences) == 0 || len(pool) == 0 {
		return []domain.QuizItem{}, nil
	}

	perKind := max(1, n/len(kinds))
	g.rng.Shuffle(len(sentences), func(i, j int) {
		sentences[i], sentences[j] = sentences[j], sentences[i]
	})

	var items []domain.QuizItem
	for _, kind := range kinds {
		switch kind {
		case domain.KindMultipleChoice:
			items = append(items, g.multipleChoice(sentences, pool, perKind, difficulty)...)
		case domain.KindTrueFalse:
			items = append(items, g.trueFalse(sentences, perKind, difficulty)...)
		case domain.KindFillBlank:
			items = append(items, g.fillBlank(sentences, perKind, difficulty)...)
		case domain.KindMatching:
			items = append(items, g.matching(sentences, perKind)...)
		}
	}

	g.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		items = []domain.QuizItem{}
	}

	return items, nil
}

// window returns the first 2*perKind sentences, the slice each kind draws from.
func window(sentences []string, perKind int) []string {
	if limit := perKind * 2; limit < len(sentences) {
		return sentences[:limit]
	}
	return sentences
}

func (g *heuristicGenerator) multipleChoice(
	sentences, pool []string,
	perKind int,
	difficulty domain.Difficulty,
) []domain.QuizItem {
	var items []domain.QuizItem

	for _, s := range window(sentences, perKind) {
		lower := strings.ToLower(s)
		var hits []string
		for _, kw := range pool {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}
		kw := choice(g.rng, hits)

		var distractors []string
		for _, w := range pool {
			if w != kw && len(w) >= distractorMinLength {
				distractors = append(distractors, w)
			}
		}
		// A question with nothing to choose between is not worth asking.
		if len(distractors) == 0 {
			continue
		}

		options := append(sample(g.rng, distractors, distractorCount), kw)
		g.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		answer := 0
		for i, o := range options {
			if o == kw {
				answer = i
			}
		}

		var question string
		switch difficulty {
		case domain.DifficultyEasy:
			question = fmt.Sprintf("What keyword matches this sentence?\n\"%s\"", s)
		case domain.DifficultyHard:
			masked := maskWord(s, kw)
			question = fmt.Sprintf("What term should fill the blank?\n\"%s\"", masked)
		default:
			question = fmt.Sprintf("Identify the main concept in:\n\"%s\"", s)
		}

		items = append(items, domain.QuizItem{
			ID:          g.newID(),
			Kind:        domain.KindMultipleChoice,
			Question:    question,
			Options:     options,
			AnswerIndex: answer,
			Explanation: fmt.Sprintf("The sentence emphasizes '%s', making it the best choice.", kw),
		})
		if len(items) >= perKind {
			break
		}
	}

	return items
}

func (g *heuristicGenerator) trueFalse(sentences []string, perKind int, difficulty domain.Difficulty) []domain.QuizItem {
	var items []domain.QuizItem

	for _, s := range window(sentences, perKind) {
		statement, isTrue := s, true

		if difficulty != domain.DifficultyEasy && g.rng.Float64() >= 0.5 {
			candidates := keywordTokens(strings.Fields(s), nlp.KeywordSet(s, quizKeywordCount))
			if len(candidates) > 0 {
				term := strings.Trim(choice(g.rng, candidates), wordPunctuation)
				replacement, ok := antonyms[strings.ToLower(term)]
				if !ok {
					replacement = "unrelated"
				}
				statement = strings.Replace(s, term, replacement, 1)
				isTrue = false
			}
		}

		answer, verdict := 0, "true"
		if !isTrue {
			answer, verdict = 1, "false"
		}

		items = append(items, domain.QuizItem{
			ID:          g.newID(),
			Kind:        domain.KindTrueFalse,
			Question:    statement,
			Options:     append([]string(nil), trueFalseOptions...),
			AnswerIndex: answer,
			Explanation: fmt.Sprintf("The statement is %s based on the text.", verdict),
		})
		if len(items) >= perKind {
			break
		}
	}

	return items
}

func (g *heuristicGenerator) fillBlank(sentences []string, perKind int, difficulty domain.Difficulty) []domain.QuizItem {
	var items []domain.QuizItem

	for _, s := range window(sentences, perKind) {
		words := strings.Fields(s)
		if len(words) < fillBlankMinWords {
			continue
		}

		candidates := keywordTokens(words, nlp.KeywordSet(s, quizKeywordCount))
		if len(candidates) == 0 {
			continue
		}

		blank := strings.Trim(choice(g.rng, candidates), wordPunctuation)
		hint := ""
		if difficulty == domain.DifficultyEasy {
			hint = fmt.Sprintf(" (Hint: The word starts with '%s')", truncateRunes(blank, 1))
		}

		items = append(items, domain.QuizItem{
			ID:          g.newID(),
			Kind:        domain.KindFillBlank,
			Question:    "Fill in the blank: " + strings.ReplaceAll(s, blank, domain.Blank) + hint,
			Answer:      blank,
			Explanation: fmt.Sprintf("The correct word is '%s' based on the context.", blank),
		})
		if len(items) >= perKind {
			break
		}
	}

	return items
}

type definitionPair struct {
	term string
	desc string
}

// definitionPairs finds "X is Y" and "X defined as Y" sentences with a short
// term and a substantial description.
func definitionPairs(sentences []string) []definitionPair {
	var pairs []definitionPair
	for _, s := range sentences {
		lower := strings.ToLower(s)

		var sep string
		switch {
		case strings.Contains(lower, " is "):
			sep = " is "
		case strings.Contains(lower, " defined as "):
			sep = " defined as "
		default:
			continue
		}

		term, desc, found := strings.Cut(s, sep)
		if !found {
			continue
		}
		term, desc = strings.TrimSpace(term), strings.TrimSpace(desc)
		if len(strings.Fields(term)) <= matchingMaxTermWords && len([]rune(desc)) > matchingMinDesc {
			pairs = append(pairs, definitionPair{term: term, desc: desc})
		}
	}
	return pairs
}

func (g *heuristicGenerator) matching(sentences []string, perKind int) []domain.QuizItem {
	pairs := definitionPairs(sentences)
	count := min(perKind, len(pairs)/2)

	items := make([]domain.QuizItem, 0, count)
	for i := 0; i < count; i++ {
		size := min(matchingMaxPairs, max(2, len(pairs)-i*2))
		start := i * 2
		end := min(len(pairs), start+size)
		selected := pairs[start:end]

		perm := make([]int, len(selected))
		for j := range perm {
			perm[j] = j
		}
		g.rng.Shuffle(len(perm), func(a, b int) {
			perm[a], perm[b] = perm[b], perm[a]
		})

		terms := make([]string, len(selected))
		definitions := make([]string, len(selected))
		answerMap := make(map[int]int, len(selected))
		for j, p := range selected {
			terms[j] = p.term
		}
		for pos, src := range perm {
			definitions[pos] = selected[src].desc
			answerMap[src] = pos
		}

		var q strings.Builder
		q.WriteString("Match the terms with their definitions:\n\n")
		for j, t := range terms {
			if j > 0 {
				q.WriteString("\n")
			}
			fmt.Fprintf(&q, "%d. %s", j+1, t)
		}
		q.WriteString("\n\n")
		for j, d := range definitions {
			if j > 0 {
				q.WriteString("\n")
			}
			fmt.Fprintf(&q, "%c. %s...", 'A'+j, truncateRunes(d, matchingPreview))
		}

		items = append(items, domain.QuizItem{
			ID:          g.newID(),
			Kind:        domain.KindMatching,
			Question:    q.String(),
			Terms:       terms,
			Definitions: definitions,
			AnswerMap:   answerMap,
			Explanation: "Match each term with its correct definition based on the text.",
		})
	}

	return items
}

// maskWord replaces every occurrence of word in s, ignoring case, with the
// blank marker.
func maskWord(s, word string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	return re.ReplaceAllLiteralString(s, domain.Blank)
}
