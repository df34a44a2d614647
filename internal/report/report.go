package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/scry-study/internal/examstats"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/session"
)

const dateLayout = "02 January 2006"

// Data is everything a study report shows. Exam is optional.
type Data struct {
	Title           string
	GeneratedAt     time.Time
	Session         session.State
	DueCount        int
	Exam            *examstats.Analysis
	Recommendations []string
}

// Report is a rendered study report.
type Report struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Build writes the report as Markdown and renders it.
func (r *Renderer) Build(d Data) (*Report, error) {
	md := Markdown(d)
	out, err := r.Render(md)
	if err != nil {
		return nil, err
	}
	return &Report{Markdown: md, HTML: out}, nil
}

// Summary renders a generated summary to HTML.
func (r *Renderer) Summary(s *generation.Summary) (string, error) {
	return r.Render(s.Markdown())
}

// Markdown writes the report for d.
func Markdown(d Data) string {
	var b strings.Builder

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "Study Report"
	} else {
		title = "Study Report: " + escape(title)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_Generated %s_\n\n", d.GeneratedAt.UTC().Format(dateLayout))

	writeProgress(&b, d.Session, d.DueCount)
	writeBadges(&b, d.Session.Badges)
	writeAchievements(&b, d.Session.Achievements)

	if d.Exam != nil {
		writeTopics(&b, d.Exam.TopicFrequency)
		writeQuestions(&b, d.Exam.ImportantQuestions)
	}

	if len(d.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range d.Recommendations {
			fmt.Fprintf(&b, "- %s\n", escape(rec))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeProgress(b *strings.Builder, s session.State, due int) {
	b.WriteString("## Progress\n\n")
	b.WriteString("| Level | XP | Coins | Quiz streak | Study streak | Due cards |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(b, "| %d | %d/%d | %d | %d | %d | %d |\n\n",
		s.Level, s.XP, s.Threshold(), s.Coins, s.Streak, s.StudyStreak, due)
}

func writeBadges(b *strings.Builder, badges []string) {
	b.WriteString("## Badges\n\n")
	if len(badges) == 0 {
		b.WriteString("No badges yet.\n\n")
		return
	}
	for _, badge := range badges {
		fmt.Fprintf(b, "- %s\n", escape(badge))
	}
	b.WriteString("\n")
}

func writeAchievements(b *strings.Builder, unlocked map[session.Achievement]bool) {
	b.WriteString("## Achievements\n\n")
	for _, a := range session.AllAchievements() {
		mark := " "
		if unlocked[a] {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s: %s\n", mark, a.Title(), a.Description())
	}
	b.WriteString("\n")
}

func writeTopics(b *strings.Builder, topics []examstats.TopicCount) {
	b.WriteString("## Topic Frequency\n\n")
	if len(topics) == 0 {
		b.WriteString("No topic data available.\n\n")
		return
	}
	b.WriteString("| Topic | Questions |\n|---|---|\n")
	for _, t := range topics {
		fmt.Fprintf(b, "| %s | %d |\n", cell(t.Topic), t.Count)
	}
	b.WriteString("\n")
}

func writeQuestions(b *strings.Builder, questions []examstats.ImportantQuestion) {
	b.WriteString("## Important Questions\n\n")
	if len(questions) == 0 {
		b.WriteString("No questions to rank.\n\n")
		return
	}
	b.WriteString("| # | Question | Frequency | Avg marks | Latest year | Score |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for i, q := range questions {
		fmt.Fprintf(b, "| %d | %s | %d | %.1f | %d | %.2f |\n",
			i+1, cell(q.Question), q.Frequency, q.AvgMarks, q.LatestYear, q.Score)
	}
	b.WriteString("\n")
}
