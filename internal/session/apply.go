package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Reward constants.
const (
	LevelXPStep        = 120
	StreakBonusStep    = 5
	StreakRatio        = 0.6
	StreakCoins        = 2
	StreakWeekLength   = 7
	CollectorCoins     = 100
	SummaryXP          = 15
	FlashcardsXP       = 10
	ExamAnalysisXP     = 25
	DailyChallengeXP   = 15
	QuizMaxXP          = 20
	MaxStudyStreakXP   = 10
	ReviewCoins        = 1
	levelFiveMilestone = 5
	levelTenMilestone  = 10
)

// ErrInvalidEvent is returned by Apply for an event it cannot fold.
var ErrInvalidEvent = errors.New("invalid session event")

// EventKind names a learning activity.
type EventKind string

// Learning activities.
const (
	EventSummaryGenerated    EventKind = "summary_generated"
	EventFlashcardsGenerated EventKind = "flashcards_generated"
	EventQuizCompleted       EventKind = "quiz_completed"
	EventExamAnalyzed        EventKind = "exam_analyzed"
	EventDailyChallenge      EventKind = "daily_challenge"
	EventCardReviewed        EventKind = "card_reviewed"
	EventStudyActivity       EventKind = "study_activity"
)

// Event is one learning activity. Correct and Total are read for
// EventQuizCompleted; CardKind and Recalled for EventCardReviewed.
type Event struct {
	Kind     EventKind   `json:"kind"`
	Correct  int         `json:"correct,omitempty"`
	Total    int         `json:"total,omitempty"`
	CardKind domain.Kind `json:"card_kind,omitempty"`
	Recalled bool        `json:"recalled,omitempty"`
}

// QuizCompleted builds the event for a graded quiz.
func QuizCompleted(correct, total int) Event {
	return Event{Kind: EventQuizCompleted, Correct: correct, Total: total}
}

// CardReviewed builds the event for one flashcard review.
func CardReviewed(kind domain.Kind, recalled bool) Event {
	return Event{Kind: EventCardReviewed, CardKind: kind, Recalled: recalled}
}

// Simple builds an event that carries no data.
func Simple(kind EventKind) Event {
	return Event{Kind: kind}
}

type applier struct {
	s     State
	notes []Notification
}

func (a *applier) notify(level NotificationLevel, msg string) *Notification {
	a.notes = append(a.notes, Notification{Level: level, Message: msg})
	return &a.notes[len(a.notes)-1]
}

// Apply folds e into s and returns the new state along with the
// notifications it produced. s is not modified.
func Apply(s State, e Event, now time.Time) (State, []Notification, error) {
	a := &applier{s: s.Clone()}
	if a.s.Level < 1 {
		a.s.Level = 1
	}

	switch e.Kind {
	case EventSummaryGenerated:
		a.unlock(AchievementFirstSummary, LevelCelebration)
		a.reward(SummaryXP, "Summary ready")

	case EventFlashcardsGenerated:
		a.reward(FlashcardsXP, "Flashcards ready")

	case EventQuizCompleted:
		if e.Total <= 0 || e.Correct < 0 || e.Correct > e.Total {
			return s, nil, fmt.Errorf("%w: quiz score %d/%d", ErrInvalidEvent, e.Correct, e.Total)
		}
		a.notify(LevelSuccess, fmt.Sprintf("Score: %d/%d", e.Correct, e.Total))
		if e.Correct == e.Total {
			a.unlock(AchievementPerfectQuiz, LevelCelebration)
		}
		a.unlock(AchievementFirstQuiz, LevelSuccess)
		a.updateStreak(float64(e.Correct) / float64(e.Total))
		a.awardXP(QuizMaxXP * e.Correct / e.Total)

	case EventExamAnalyzed:
		a.reward(ExamAnalysisXP, "Exam analysis ready")

	case EventDailyChallenge:
		if a.s.DailyDone(now) {
			a.notify(LevelInfo, "Daily challenge completed. Come back tomorrow!")
			break
		}
		a.s.DailyDate = now.UTC().Format(dateLayout)
		a.notify(LevelSuccess, fmt.Sprintf("+%d XP for completing today's challenge!", DailyChallengeXP)).XP = DailyChallengeXP
		a.awardXP(DailyChallengeXP)

	case EventCardReviewed:
		a.cardReviewed(e.CardKind, e.Recalled)

	case EventStudyActivity:
		a.updateStudyStreak(now)

	default:
		return s, nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, string(e.Kind))
	}

	a.s.UpdatedAt = now.UTC()
	return a.s, a.notes, nil
}

func (a *applier) reward(xp int, msg string) {
	a.notify(LevelSuccess, fmt.Sprintf("%s! +%d XP", msg, xp)).XP = xp
	a.awardXP(xp)
}

func levelThreshold(level int) int {
	return level * LevelXPStep
}

func (a *applier) awardXP(amount int) {
	a.s.XP += max(0, amount)

	for a.s.XP >= levelThreshold(a.s.Level) {
		a.s.Level++
		badge := fmt.Sprintf("Level %d Achieved", a.s.Level)
		a.s.Badges = append(a.s.Badges, badge)
		a.notify(LevelCelebration, fmt.Sprintf("🎉 Level Up! You reached Level %d", a.s.Level)).Badge = badge

		switch a.s.Level {
		case levelFiveMilestone:
			a.unlock(AchievementLevel5, LevelCelebration)
		case levelTenMilestone:
			a.unlock(AchievementLevel10, LevelCelebration)
		}
	}
}

func (a *applier) awardCoins(amount int) {
	a.s.Coins += max(0, amount)
	if a.s.Coins >= CollectorCoins {
		a.unlock(AchievementCollector, LevelCelebration)
	}
}

// unlock grants an achievement and its badge the first time only.
func (a *applier) unlock(ach Achievement, level NotificationLevel) {
	if a.s.Achievements[ach] {
		return
	}
	a.s.Achievements[ach] = true
	a.s.Badges = append(a.s.Badges, ach.Title())
	a.notify(level, "Achievement unlocked: "+ach.Title()).Badge = ach.Title()
}

// updateStreak extends the quiz streak when ratio reaches StreakRatio and
// breaks it otherwise.
func (a *applier) updateStreak(ratio float64) {
	if ratio < StreakRatio {
		a.s.Streak = 0
		a.notify(LevelWarning, "Streak broken ❌")
		return
	}

	a.s.Streak++
	a.awardCoins(StreakCoins)

	if a.s.Streak >= StreakWeekLength {
		a.unlock(AchievementStreakWeek, LevelCelebration)
	}

	if a.s.Streak%StreakBonusStep == 0 {
		a.notify(LevelSuccess, fmt.Sprintf("🔥 Streak %d! Bonus %d XP", a.s.Streak, StreakBonusStep)).XP = StreakBonusStep
		a.awardXP(StreakBonusStep)
	}
}

// updateStudyStreak counts consecutive UTC days with any study activity.
func (a *applier) updateStudyStreak(now time.Time) {
	today := now.UTC().Format(dateLayout)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(dateLayout)

	if a.s.LastStudyDate == today {
		return
	}

	if a.s.LastStudyDate == yesterday {
		a.s.StudyStreak++
	} else {
		a.s.StudyStreak = 1
	}
	a.s.LastStudyDate = today

	if a.s.StudyStreak > 1 {
		xp := min(MaxStudyStreakXP, a.s.StudyStreak)
		a.notify(LevelSuccess, fmt.Sprintf("📚 Study streak: %d days! +%d XP", a.s.StudyStreak, xp)).XP = xp
		a.awardXP(xp)
	}
}

// cardReviewed applies the practice rewards, which depend on how the card
// is practised.
func (a *applier) cardReviewed(kind domain.Kind, recalled bool) {
	switch kind {
	case domain.KindFillBlank:
		if recalled {
			a.practiceReward("✅ Correct!", 5)
		} else {
			a.notify(LevelWarning, "❌ Not quite. Check the answer and try again.")
		}
	case domain.KindDefinition, domain.KindExplanation, domain.KindProcess:
		if recalled {
			a.practiceReward("✅ Great job!", 3)
		} else {
			a.notify(LevelInfo, "Keep practicing! +1 XP").XP = 1
			a.awardXP(1)
		}
	case domain.KindTrueFalse:
		if recalled {
			a.practiceReward("✅ Correct!", 3)
		} else {
			a.notify(LevelWarning, "❌ Incorrect.")
		}
	default:
		if recalled {
			a.practiceReward("✅ Reviewed!", 2)
		} else {
			a.notify(LevelInfo, "Marked for another look.")
		}
	}
}

func (a *applier) practiceReward(msg string, xp int) {
	a.notify(LevelSuccess, fmt.Sprintf("%s +%d XP", msg, xp)).XP = xp
	a.awardXP(xp)
	a.awardCoins(ReviewCoins)
}
