package session

import (
	"time"

	"github.com/google/uuid"
)

// Achievement names a one-off milestone.
type Achievement string

// Known achievements.
const (
	AchievementFirstSummary Achievement = "first_summary"
	AchievementFirstQuiz    Achievement = "first_quiz"
	AchievementPerfectQuiz  Achievement = "perfect_quiz"
	AchievementStreakWeek   Achievement = "streak_week"
	AchievementLevel5       Achievement = "level_5"
	AchievementLevel10      Achievement = "level_10"
	AchievementCollector    Achievement = "collector"
)

// AllAchievements lists every achievement in display order.
func AllAchievements() []Achievement {
	return []Achievement{
		AchievementFirstSummary,
		AchievementFirstQuiz,
		AchievementPerfectQuiz,
		AchievementStreakWeek,
		AchievementLevel5,
		AchievementLevel10,
		AchievementCollector,
	}
}

// Title is the badge text awarded with the achievement.
func (a Achievement) Title() string {
	switch a {
	case AchievementFirstSummary:
		return "📝 First Summary"
	case AchievementFirstQuiz:
		return "🧠 First Quiz"
	case AchievementPerfectQuiz:
		return "✨ Perfect Score"
	case AchievementStreakWeek:
		return "🔥 Week Streak"
	case AchievementLevel5:
		return "🏆 Level 5 Master"
	case AchievementLevel10:
		return "🏆 Level 10 Expert"
	case AchievementCollector:
		return "💰 Coin Collector"
	default:
		return string(a)
	}
}

// Description explains how the achievement is earned.
func (a Achievement) Description() string {
	switch a {
	case AchievementFirstSummary:
		return "Generate your first summary"
	case AchievementFirstQuiz:
		return "Complete your first quiz"
	case AchievementPerfectQuiz:
		return "Get 100% on a quiz"
	case AchievementStreakWeek:
		return "Maintain a 7-day streak"
	case AchievementLevel5:
		return "Reach level 5"
	case AchievementLevel10:
		return "Reach level 10"
	case AchievementCollector:
		return "Earn 100 coins"
	default:
		return ""
	}
}

// dateLayout formats calendar days in UTC.
const dateLayout = "2006-01-02"

// State is the gamification state of one learner session.
type State struct {
	ID          uuid.UUID `json:"id"`
	XP          int       `json:"xp"`
	Level       int       `json:"level"`
	Coins       int       `json:"coins"`
	Streak      int       `json:"streak"`
	StudyStreak int       `json:"study_streak"`

	// LastStudyDate and DailyDate are UTC calendar days, empty when unset.
	LastStudyDate string `json:"last_study_date,omitempty"`
	DailyDate     string `json:"daily_date,omitempty"`

	Badges       []string             `json:"badges"`
	Achievements map[Achievement]bool `json:"achievements"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// New returns the state of a session that has done nothing yet.
func New(id uuid.UUID, now time.Time) State {
	s := State{
		ID:           id,
		Level:        1,
		Badges:       []string{},
		Achievements: make(map[Achievement]bool, len(AllAchievements())),
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	for _, a := range AllAchievements() {
		s.Achievements[a] = false
	}
	return s
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Badges = append([]string{}, s.Badges...)
	out.Achievements = make(map[Achievement]bool, len(s.Achievements))
	for k, v := range s.Achievements {
		out.Achievements[k] = v
	}
	return out
}

// DailyDone reports whether the daily challenge was completed on now's day.
func (s State) DailyDone(now time.Time) bool {
	return s.DailyDate == now.UTC().Format(dateLayout)
}

// Threshold returns the XP needed to leave the current level.
func (s State) Threshold() int {
	return levelThreshold(s.Level)
}

// Progress returns the share of the current threshold reached, in percent,
// capped at 100.
func (s State) Progress() int {
	threshold := s.Threshold()
	if threshold <= 0 {
		return 0
	}
	return min(100, 100*s.XP/threshold)
}
