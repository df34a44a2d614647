package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func mustApply(t *testing.T, s State, e Event, now time.Time) (State, []Notification) {
	t.Helper()
	next, notes, err := Apply(s, e, now)
	require.NoError(t, err)
	return next, notes
}

func TestNew(t *testing.T) {
	t.Parallel()
	id := uuid.New()

	s := New(id, day)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 120, s.Threshold())
	assert.Zero(t, s.Progress())
	assert.Len(t, s.Achievements, len(AllAchievements()))
	for _, unlocked := range s.Achievements {
		assert.False(t, unlocked)
	}
}

func TestApply_SummaryUnlocksOnce(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)

	s, notes := mustApply(t, s, Simple(EventSummaryGenerated), day)
	assert.Equal(t, SummaryXP, s.XP)
	assert.True(t, s.Achievements[AchievementFirstSummary])
	assert.Equal(t, []string{"📝 First Summary"}, s.Badges)
	require.Len(t, notes, 2)
	assert.Equal(t, "📝 First Summary", notes[0].Badge)
	assert.Equal(t, SummaryXP, notes[1].XP)

	s, notes = mustApply(t, s, Simple(EventSummaryGenerated), day)
	assert.Equal(t, 2*SummaryXP, s.XP)
	assert.Len(t, s.Badges, 1)
	assert.Len(t, notes, 1)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	before := New(uuid.New(), day)

	after, _ := mustApply(t, before, Simple(EventSummaryGenerated), day.Add(time.Hour))
	assert.Zero(t, before.XP)
	assert.Empty(t, before.Badges)
	assert.False(t, before.Achievements[AchievementFirstSummary])
	assert.Equal(t, day, before.UpdatedAt)
	assert.Equal(t, day.Add(time.Hour), after.UpdatedAt)
}

func TestApply_LevelUp(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)

	for i := 0; i < 4; i++ {
		s, _ = mustApply(t, s, Simple(EventExamAnalyzed), day)
	}
	assert.Equal(t, 100, s.XP)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 83, s.Progress())

	s, notes := mustApply(t, s, Simple(EventExamAnalyzed), day)
	assert.Equal(t, 125, s.XP)
	assert.Equal(t, 2, s.Level)
	assert.Contains(t, s.Badges, "Level 2 Achieved")
	assert.Equal(t, LevelCelebration, notes[len(notes)-1].Level)
}

func TestApply_LevelFiveMilestone(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)
	s.Level, s.XP = 4, 479

	s, _ = mustApply(t, s, Simple(EventExamAnalyzed), day)
	assert.Equal(t, 5, s.Level)
	assert.True(t, s.Achievements[AchievementLevel5])
	assert.Equal(t, []string{"Level 5 Achieved", "🏆 Level 5 Master"}, s.Badges)
}

func TestApply_Quiz(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)

	s, _ = mustApply(t, s, QuizCompleted(3, 3), day)
	assert.True(t, s.Achievements[AchievementPerfectQuiz])
	assert.True(t, s.Achievements[AchievementFirstQuiz])
	assert.Equal(t, 1, s.Streak)
	assert.Equal(t, StreakCoins, s.Coins)
	assert.Equal(t, 20, s.XP)

	s, notes := mustApply(t, s, QuizCompleted(1, 3), day)
	assert.Zero(t, s.Streak)
	assert.Equal(t, 26, s.XP, "int(20*1/3) = 6")
	assert.Contains(t, notes, Notification{Level: LevelWarning, Message: "Streak broken ❌"})

	for _, bad := range []Event{QuizCompleted(4, 3), QuizCompleted(0, 0), QuizCompleted(-1, 2)} {
		same, notes, err := Apply(s, bad, day)
		assert.ErrorIs(t, err, ErrInvalidEvent)
		assert.Nil(t, notes)
		assert.Equal(t, s, same)
	}
}

func TestApply_QuizStreakBonusAndWeek(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)

	for i := 0; i < 5; i++ {
		s, _ = mustApply(t, s, QuizCompleted(2, 3), day)
	}
	// 5 x int(20*2/3) = 65, plus the streak bonus at 5
	assert.Equal(t, 70, s.XP)
	assert.Equal(t, 5, s.Streak)
	assert.Equal(t, 10, s.Coins)
	assert.False(t, s.Achievements[AchievementStreakWeek])

	for i := 0; i < 2; i++ {
		s, _ = mustApply(t, s, QuizCompleted(2, 3), day)
	}
	assert.True(t, s.Achievements[AchievementStreakWeek])
}

func TestApply_Collector(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)
	s.Coins = 99

	s, _ = mustApply(t, s, CardReviewed(domain.KindReview, true), day)
	assert.Equal(t, 100, s.Coins)
	assert.True(t, s.Achievements[AchievementCollector])
	assert.Contains(t, s.Badges, "💰 Coin Collector")
}

func TestApply_DailyChallenge(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)

	s, _ = mustApply(t, s, Simple(EventDailyChallenge), day)
	assert.Equal(t, DailyChallengeXP, s.XP)
	assert.True(t, s.DailyDone(day))

	s, notes := mustApply(t, s, Simple(EventDailyChallenge), day.Add(2*time.Hour))
	assert.Equal(t, DailyChallengeXP, s.XP)
	require.Len(t, notes, 1)
	assert.Equal(t, LevelInfo, notes[0].Level)

	tomorrow := day.Add(24 * time.Hour)
	assert.False(t, s.DailyDone(tomorrow))
	s, _ = mustApply(t, s, Simple(EventDailyChallenge), tomorrow)
	assert.Equal(t, 2*DailyChallengeXP, s.XP)
}

func TestApply_StudyStreak(t *testing.T) {
	t.Parallel()
	s := New(uuid.New(), day)
	study := Simple(EventStudyActivity)

	s, notes := mustApply(t, s, study, day)
	assert.Equal(t, 1, s.StudyStreak)
	assert.Equal(t, "2026-03-14", s.LastStudyDate)
	assert.Empty(t, notes)
	assert.Zero(t, s.XP)

	s, _ = mustApply(t, s, study, day.Add(3*time.Hour))
	assert.Equal(t, 1, s.StudyStreak, "same day counts once")

	s, notes = mustApply(t, s, study, day.Add(24*time.Hour))
	assert.Equal(t, 2, s.StudyStreak)
	assert.Equal(t, 2, s.XP)
	require.Len(t, notes, 1)
	assert.Equal(t, "📚 Study streak: 2 days! +2 XP", notes[0].Message)

	s, _ = mustApply(t, s, study, day.Add(72*time.Hour))
	assert.Equal(t, 1, s.StudyStreak, "a missed day resets the streak")
}

func TestApply_CardReviewed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     domain.Kind
		recalled bool
		xp       int
		coins    int
	}{
		{domain.KindFillBlank, true, 5, 1},
		{domain.KindFillBlank, false, 0, 0},
		{domain.KindDefinition, true, 3, 1},
		{domain.KindProcess, false, 1, 0},
		{domain.KindTrueFalse, true, 3, 1},
		{domain.KindTrueFalse, false, 0, 0},
		{domain.KindReview, true, 2, 1},
		{domain.KindExample, false, 0, 0},
	}

	for _, tt := range tests {
		s, notes := mustApply(t, New(uuid.New(), day), CardReviewed(tt.kind, tt.recalled), day)
		assert.Equal(t, tt.xp, s.XP, "%s recalled=%v", tt.kind, tt.recalled)
		assert.Equal(t, tt.coins, s.Coins, "%s recalled=%v", tt.kind, tt.recalled)
		assert.NotEmpty(t, notes)
	}
}

func TestApply_UnknownEvent(t *testing.T) {
	t.Parallel()
	_, _, err := Apply(New(uuid.New(), day), Simple("dance"), day)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestAchievementText(t *testing.T) {
	t.Parallel()
	for _, a := range AllAchievements() {
		assert.NotEqual(t, string(a), a.Title())
		assert.NotEmpty(t, a.Description())
	}
}
