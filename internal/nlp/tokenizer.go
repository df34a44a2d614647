package nlp

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinSentenceLength is the shortest trimmed sentence kept by SegmentSentences.
const MinSentenceLength = 11

// abbrevDot stands in for the period of a protected abbreviation while the
// text is split. It is a private-use rune that ordinary text never contains.
const abbrevDot = "\uE000"

var (
	abbreviations = []*regexp.Regexp{
		regexp.MustCompile(`\bMr\.\s`),
		regexp.MustCompile(`\bMrs\.\s`),
		regexp.MustCompile(`\bMs\.\s`),
		regexp.MustCompile(`\bDr\.\s`),
		regexp.MustCompile(`\bProf\.\s`),
		regexp.MustCompile(`\bSr\.\s`),
		regexp.MustCompile(`\bJr\.\s`),
		regexp.MustCompile(`\bvs\.\s`),
		regexp.MustCompile(`\betc\.\s`),
		regexp.MustCompile(`\be\.g\.\s`),
		regexp.MustCompile(`\bi\.e\.\s`),
		regexp.MustCompile(`\bFig\.\s`),
		regexp.MustCompile(`\bEq\.\s`),
	}

	terminatorRun = regexp.MustCompile(`[.!?]+`)

	// A terminator ends a sentence when followed by whitespace and a capital,
	// or by nothing but whitespace.
	boundaryFollow = regexp.MustCompile(`^(\s+[A-Z]|\s*$)`)

	contractions = []struct {
		pattern *regexp.Regexp
		repl    string
	}{
		{regexp.MustCompile(`won't`), "will not"},
		{regexp.MustCompile(`can't`), "cannot"},
		{regexp.MustCompile(`n't`), " not"},
		{regexp.MustCompile(`'re`), " are"},
		{regexp.MustCompile(`'ll`), " will"},
		{regexp.MustCompile(`'ve`), " have"},
		{regexp.MustCompile(`'d`), " would"},
	}

	wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
)

// protectAbbreviations hides the periods of known abbreviations. The
// whitespace after the abbreviation is normalised to a single space.
func protectAbbreviations(text string) string {
	for _, re := range abbreviations {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			m = strings.TrimRight(m, " \t\n\f\r\v")
			return strings.ReplaceAll(m, ".", abbrevDot) + " "
		})
	}
	return text
}

// SegmentSentences splits text into sentences. Terminal punctuation is
// dropped, each sentence is trimmed, and sentences shorter than
// MinSentenceLength characters are discarded.
func SegmentSentences(text string) []string {
	processed := strings.TrimSpace(protectAbbreviations(text))
	if processed == "" {
		return nil
	}

	var pieces []string
	start := 0
	for _, loc := range terminatorRun.FindAllStringIndex(processed, -1) {
		if !boundaryFollow.MatchString(processed[loc[1]:]) {
			continue
		}
		pieces = append(pieces, processed[start:loc[0]])
		start = loc[1]
	}
	pieces = append(pieces, processed[start:])

	sentences := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		s := strings.ReplaceAll(strings.TrimSpace(piece), abbrevDot, ".")
		if utf8.RuneCountInString(s) < MinSentenceLength {
			continue
		}
		sentences = append(sentences, s)
	}

	return sentences
}

// SegmentWords expands common English contractions and returns every run of
// three or more ASCII letters, lowercased, in text order.
func SegmentWords(text string) []string {
	for _, c := range contractions {
		text = c.pattern.ReplaceAllString(text, c.repl)
	}
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}
