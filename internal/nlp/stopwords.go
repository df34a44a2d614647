package nlp

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "with", "that", "this", "from", "have", "will", "would", "could",
		"should", "about", "into", "onto", "over", "under", "between", "among", "because",
		"while", "where", "when", "which", "who", "whom", "whose", "what", "why", "how",
		"is", "are", "was", "were", "be", "been", "being", "has", "had", "do", "does", "did",
		"not", "no", "yes", "of", "in", "on", "at", "to", "by", "an", "a", "as", "it", "its",
		"but", "or", "if", "then", "else", "than", "so", "such", "very", "can", "may",
		"also", "however", "therefore", "thus", "hence", "moreover", "furthermore",
		"nevertheless", "nonetheless", "meanwhile", "otherwise", "although", "though",
	} {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether w (lowercase) is excluded from keyword scoring.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
