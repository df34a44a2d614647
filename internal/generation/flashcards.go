package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/nlp"
)

const (
	flashcardKeywordCount = 15
	definitionMaxTerm     = 6
	definitionMinDesc     = 5
	blankMinWords         = 6
	statementMinWords     = 6
	placeholderAnswer     = "Answer based on your knowledge of the topic."
	reviewAnswer          = "Review your notes on this topic."
	wordPunctuation       = ".,!?"
)

// definitionPatterns pair a copula phrase with the question prefix used for
// the term in front of it. The first phrase found in a sentence wins.
var definitionPatterns = []struct {
	phrase string
	prefix string
}{
	{" is ", "What is"},
	{" are ", "What are"},
	{" defined as ", "Define"},
	{" refers to ", "What does"},
	{" means ", "What does"},
	{" can be defined as ", "Define"},
	{" is defined as ", "Define"},
	{" describes ", "What does"},
	{" explains ", "What does"},
	{" involves ", "What does"},
	{" includes ", "What does"},
	{" consists of ", "What does"},
}

var (
	exampleCues = []string{"example", "such as", "like", "illustration"}
	processCues = []string{"process", "step", "procedure", "method"}
)

type cardBuilder struct {
	g     *heuristicGenerator
	n     int
	cards []domain.Flashcard
}

func (b *cardBuilder) full() bool { return len(b.cards) >= b.n }

func (b *cardBuilder) add(kind domain.Kind, question, answer string) {
	b.cards = append(b.cards, domain.Flashcard{
		ID:       b.g.newID(),
		Kind:     kind,
		Question: question,
		Answer:   answer,
	})
}

func (b *cardBuilder) mentions(keyword string) bool {
	for _, c := range b.cards {
		if strings.Contains(strings.ToLower(c.Question), keyword) {
			return true
		}
	}
	return false
}

func (g *heuristicGenerator) Flashcards(text string, n int) []domain.Flashcard {
	if n <= 0 {
		return []domain.Flashcard{}
	}

	sentences := nlp.SegmentSentences(text)
	keywords := nlp.Keywords(text, flashcardKeywordCount)
	b := &cardBuilder{g: g, n: n}

	if len(sentences) == 0 || len(keywords) == 0 {
		g.chunkCards(b, text)
		return b.cards
	}

	g.definitionCards(b, sentences)
	g.keywordCards(b, sentences, keywords)
	g.blankCards(b, sentences, keywords)
	g.statementCards(b, sentences)
	g.trueFalseCards(b, sentences)

	for i := len(b.cards); i < n; i++ {
		b.add(domain.KindReview, fmt.Sprintf("Review point %d:", i+1), reviewAnswer)
	}

	return b.cards[:n]
}

// chunkCards makes one review card per non-blank paragraph.
func (g *heuristicGenerator) chunkCards(b *cardBuilder, text string) {
	chunks := strings.Split(text, "\n\n")
	if len(chunks) > b.n {
		chunks = chunks[:b.n]
	}
	for i, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		b.add(domain.KindReview, fmt.Sprintf("Review point %d:", i+1), chunk)
	}
}

func (g *heuristicGenerator) definitionCards(b *cardBuilder, sentences []string) {
	half := b.n / 2
	for _, sent := range sentences {
		lower := strings.ToLower(sent)
		for _, p := range definitionPatterns {
			if !strings.Contains(lower, p.phrase) {
				continue
			}
			term, desc, found := strings.Cut(sent, p.phrase)
			if !found {
				continue
			}
			term, desc = strings.TrimSpace(term), strings.TrimSpace(desc)
			words := len(strings.Fields(term))
			if words >= 1 && words <= definitionMaxTerm && utf8.RuneCountInString(desc) > definitionMinDesc {
				b.add(domain.KindDefinition, fmt.Sprintf("%s %s?", p.prefix, term), desc)
				break
			}
		}

		if len(b.cards) >= half {
			break
		}
	}
}

func (g *heuristicGenerator) keywordCards(b *cardBuilder, sentences, keywords []string) {
	for _, kw := range keywords {
		if b.full() {
			return
		}
		if b.mentions(kw) {
			continue
		}

		var relevant []string
		for _, s := range sentences {
			if strings.Contains(strings.ToLower(s), kw) {
				relevant = append(relevant, s)
			}
		}
		if len(relevant) == 0 {
			continue
		}

		source := choice(g.rng, relevant)
		lower := strings.ToLower(source)
		answer := strings.TrimSpace(source)
		switch {
		case containsAny(lower, exampleCues):
			b.add(domain.KindExample, fmt.Sprintf("Give an example of %s.", kw), answer)
		case containsAny(lower, processCues):
			b.add(domain.KindProcess, fmt.Sprintf("Explain the process of %s.", kw), answer)
		default:
			b.add(domain.KindExplanation, fmt.Sprintf("Explain the importance of %s.", kw), answer)
		}
	}
}

func (g *heuristicGenerator) blankCards(b *cardBuilder, sentences, keywords []string) {
	keywordSet := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		keywordSet[kw] = struct{}{}
	}

	for _, sent := range sentences {
		if b.full() {
			return
		}

		words := strings.Fields(sent)
		if len(words) < blankMinWords {
			continue
		}

		candidates := keywordTokens(words, keywordSet)
		if len(candidates) == 0 {
			for _, w := range words {
				if utf8.RuneCountInString(w) > 3 {
					candidates = append(candidates, w)
				}
			}
		}
		if len(candidates) == 0 {
			continue
		}

		blank := strings.Trim(choice(g.rng, candidates), wordPunctuation)
		if blank == "" {
			continue
		}
		b.add(domain.KindFillBlank, "Fill in the blank: "+strings.ReplaceAll(sent, blank, domain.Blank), blank)
	}
}

func (g *heuristicGenerator) statementCards(b *cardBuilder, sentences []string) {
	for _, sent := range sentences {
		if b.full() {
			return
		}

		sent = strings.TrimSpace(sent)
		switch {
		case strings.HasSuffix(sent, "?"):
			b.add(domain.KindReview, sent, placeholderAnswer)
		case len(strings.Fields(sent)) >= statementMinWords:
			b.add(domain.KindReview, "What is described in the following: "+sent, placeholderAnswer)
		}
	}
}

func (g *heuristicGenerator) trueFalseCards(b *cardBuilder, sentences []string) {
	for _, sent := range sentences {
		if b.full() {
			return
		}
		if len(strings.Fields(sent)) >= statementMinWords {
			b.add(domain.KindTrueFalse, "True or False: "+strings.TrimSpace(sent), domain.AnswerTrue)
		}
	}
}

// keywordTokens returns the whitespace tokens whose lowercased form, with
// surrounding punctuation removed, is a keyword.
func keywordTokens(words []string, keywords map[string]struct{}) []string {
	var out []string
	for _, w := range words {
		if _, ok := keywords[strings.ToLower(strings.Trim(w, wordPunctuation))]; ok {
			out = append(out, w)
		}
	}
	return out
}
