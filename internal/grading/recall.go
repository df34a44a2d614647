package grading

import "strings"

// RecallOverlap is the share of answer tokens a typed guess must contain to
// count as recalled.
const RecallOverlap = 0.6

// CheckRecall reports whether a typed guess recalls answer: either the
// normalised guess occurs inside the normalised answer, or it shares at
// least RecallOverlap of the answer's distinct tokens. A blank guess never
// counts.
func CheckRecall(guess, answer string) bool {
	g, a := normalize(guess), normalize(answer)
	if g == "" {
		return false
	}
	if strings.Contains(a, g) {
		return true
	}

	answerTokens := tokenSet(a)
	if len(answerTokens) == 0 {
		return false
	}
	shared := 0
	for tok := range tokenSet(g) {
		if _, ok := answerTokens[tok]; ok {
			shared++
		}
	}

	return float64(shared)/float64(len(answerTokens)) >= RecallOverlap
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
