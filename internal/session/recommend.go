package session

import "fmt"

// Recommendations suggests what to study next from the session's level,
// its quiz streak and the number of flashcards due for review.
func Recommendations(s State, dueCount int) []string {
	var recs []string

	switch {
	case s.Level < 3:
		recs = append(recs, "Focus on generating summaries to build foundational knowledge")
	case s.Level < 7:
		recs = append(recs, "Try more challenging quizzes to test your understanding")
	default:
		recs = append(recs, "Challenge yourself with hard difficulty quizzes and daily challenges")
	}

	switch {
	case s.Streak == 0:
		recs = append(recs, "Start with easier quizzes to build your streak")
	case s.Streak < 3:
		recs = append(recs, "Keep going! You're building momentum")
	default:
		recs = append(recs, "Great job maintaining your streak! Try a daily challenge")
	}

	if dueCount > 0 {
		recs = append(recs, fmt.Sprintf("You have %d flashcards due for review", dueCount))
	}

	return recs
}
