package nlp

import (
	"sort"
	"strings"
)

// Keyword is a word together with its importance score.
// Scores are only comparable within one call.
type Keyword struct {
	Word  string
	Score float64
}

// ScoreKeywords ranks every non-stopword in text, best first.
//
//	tf[w]    = count(w) / total non-stopwords
//	idf[w]   = sentences / max(1, sentences whose lowercase text contains w)
//	score[w] = tf[w] * idf[w]
//
// Containment is a substring test, so "form" is counted in a sentence that
// only says "information". Ties keep first-occurrence order.
func ScoreKeywords(text string) []Keyword {
	var order []string
	freq := make(map[string]int)
	total := 0
	for _, w := range SegmentWords(text) {
		if IsStopword(w) {
			continue
		}
		if _, seen := freq[w]; !seen {
			order = append(order, w)
		}
		freq[w]++
		total++
	}
	if total == 0 {
		return nil
	}

	sentences := SegmentSentences(text)
	lowered := make([]string, len(sentences))
	for i, s := range sentences {
		lowered[i] = strings.ToLower(s)
	}
	totalSentences := float64(max(1, len(sentences)))

	ranked := make([]Keyword, 0, len(order))
	for _, w := range order {
		sentCount := 0
		for _, s := range lowered {
			if strings.Contains(s, w) {
				sentCount++
			}
		}
		tf := float64(freq[w]) / float64(total)
		idf := totalSentences / float64(max(1, sentCount))
		ranked = append(ranked, Keyword{Word: w, Score: tf * idf})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// Keywords returns at most k words from text by descending score.
func Keywords(text string, k int) []string {
	if k <= 0 {
		return nil
	}

	ranked := ScoreKeywords(text)
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	words := make([]string, len(ranked))
	for i, kw := range ranked {
		words[i] = kw.Word
	}
	return words
}

// KeywordSet returns the top-k keywords as a set.
func KeywordSet(text string, k int) map[string]struct{} {
	words := Keywords(text, k)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
