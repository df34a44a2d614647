package examstats

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTopN is the number of important questions returned when the
// caller does not ask for a specific number.
const DefaultTopN = 20

// Values used for missing cells.
const (
	DefaultTopic   = "Misc"
	DefaultSubject = "Unknown"
)

const (
	minQuestionLength = 6
	minTopicLength    = 3
)

// Row is one question from a past paper.
type Row struct {
	Question string `json:"question" validate:"required"`
	Topic    string `json:"topic"`
	Marks    int    `json:"marks" validate:"gte=0"`
	Year     int    `json:"year" validate:"gte=0"`
	Subject  string `json:"subject"`
}

// TopicCount is the number of questions asked on one topic.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// MarksCount is the number of questions worth a given number of marks.
type MarksCount struct {
	Marks int `json:"marks"`
	Count int `json:"count"`
}

// ImportantQuestion ranks a question by how often it is asked, how many
// marks it carries and how recently it appeared.
type ImportantQuestion struct {
	Question   string  `json:"question"`
	Frequency  int     `json:"frequency"`
	AvgMarks   float64 `json:"avg_marks"`
	LatestYear int     `json:"latest_year"`
	Score      float64 `json:"score"`
}

// Clean trims every field, fills missing topics and subjects, title-cases
// them, and drops rows whose question or topic is too short to be real.
func Clean(rows []Row) []Row {
	title := cases.Title(language.English)

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		r.Question = strings.TrimSpace(r.Question)
		r.Topic = strings.TrimSpace(r.Topic)
		r.Subject = strings.TrimSpace(r.Subject)
		if r.Topic == "" {
			r.Topic = DefaultTopic
		}
		if r.Subject == "" {
			r.Subject = DefaultSubject
		}
		r.Topic = title.String(r.Topic)
		r.Subject = title.String(r.Subject)

		if utf8.RuneCountInString(r.Question) < minQuestionLength ||
			utf8.RuneCountInString(r.Topic) < minTopicLength {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TopicFrequency counts questions per topic, most frequent first. Topics
// with equal counts keep the order in which they first appear.
func TopicFrequency(rows []Row) []TopicCount {
	index := make(map[string]int)
	counts := []TopicCount{}
	for _, r := range rows {
		i, ok := index[r.Topic]
		if !ok {
			i = len(counts)
			index[r.Topic] = i
			counts = append(counts, TopicCount{Topic: r.Topic})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// MarksDistribution counts questions per mark value, in ascending marks.
func MarksDistribution(rows []Row) []MarksCount {
	byMarks := make(map[int]int)
	for _, r := range rows {
		byMarks[r.Marks]++
	}

	dist := make([]MarksCount, 0, len(byMarks))
	for marks, count := range byMarks {
		dist = append(dist, MarksCount{Marks: marks, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool {
		return dist[i].Marks < dist[j].Marks
	})
	return dist
}

type questionStats struct {
	question   string
	frequency  int
	totalMarks int
	latestYear int
}

// ImportantQuestions groups rows by their lowercased question text and
// returns the topN best scoring groups:
//
//	score = frequency * (1 + avgMarks/10) * (1 + (latestYear - minYear) / max(1, maxYear - minYear))
//
// Years are taken over all rows. A topN of zero or less means DefaultTopN.
func ImportantQuestions(rows []Row, topN int) []ImportantQuestion {
	if len(rows) == 0 {
		return []ImportantQuestion{}
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	minYear, maxYear := rows[0].Year, rows[0].Year
	index := make(map[string]int)
	var groups []questionStats
	for _, r := range rows {
		minYear = min(minYear, r.Year)
		maxYear = max(maxYear, r.Year)

		key := strings.ToLower(strings.TrimSpace(r.Question))
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, questionStats{question: key, latestYear: r.Year})
		}
		g := &groups[i]
		g.frequency++
		g.totalMarks += r.Marks
		g.latestYear = max(g.latestYear, r.Year)
	}

	span := float64(max(1, maxYear-minYear))
	ranked := make([]ImportantQuestion, len(groups))
	for i, g := range groups {
		avg := float64(g.totalMarks) / float64(g.frequency)
		recency := 1 + float64(g.latestYear-minYear)/span
		ranked[i] = ImportantQuestion{
			Question:   g.question,
			Frequency:  g.frequency,
			AvgMarks:   avg,
			LatestYear: g.latestYear,
			Score:      float64(g.frequency) * (1 + avg/10) * recency,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Analysis bundles every statistic computed for one set of rows.
type Analysis struct {
	Rows               int                 `json:"rows"`
	TopicFrequency     []TopicCount        `json:"topic_frequency"`
	MarksDistribution  []MarksCount        `json:"marks_distribution"`
	ImportantQuestions []ImportantQuestion `json:"important_questions"`
}

// Analyze cleans rows and computes all statistics over what remains.
func Analyze(rows []Row, topN int) Analysis {
	cleaned := Clean(rows)
	return Analysis{
		Rows:               len(cleaned),
		TopicFrequency:     TopicFrequency(cleaned),
		MarksDistribution:  MarksDistribution(cleaned),
		ImportantQuestions: ImportantQuestions(cleaned, topN),
	}
}
