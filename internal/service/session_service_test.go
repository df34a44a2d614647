package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionService(t *testing.T) {
	t.Parallel()

	_, err := NewSessionService(nil, nil, nil)
	assert.Error(t, err)
}

func TestSessionService_CreateAndGet(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()

	created, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, testNow, created.CreatedAt)

	got, err := f.sessions.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.sessions.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_DailyChallenge(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)

	first, err := f.sessions.DailyChallenge(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.DailyChallengeXP, first.Session.XP)
	require.Len(t, first.Notifications, 1)
	assert.Equal(t, session.DailyChallengeXP, first.Notifications[0].XP)

	second, err := f.sessions.DailyChallenge(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.DailyChallengeXP, second.Session.XP, "only once per day")
	require.Len(t, second.Notifications, 1)
	assert.Equal(t, session.LevelInfo, second.Notifications[0].Level)

	assert.Equal(t, session.DailyChallengeXP, f.state(t, id).XP)

	_, err = f.sessions.DailyChallenge(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_ApplyPublishesNotifications(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)

	outcome, err := f.sessions.Apply(ctx, id, session.QuizCompleted(2, 2))
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Notifications)

	published := f.inbox.Drain(id)
	require.Len(t, published, len(outcome.Notifications))
	for i, e := range published {
		assert.Equal(t, events.TypeNotification, e.Type)
		var n session.Notification
		require.NoError(t, e.UnmarshalPayload(&n))
		assert.Equal(t, outcome.Notifications[i], n)
	}
}

func TestSessionService_ApplyInvalidEvent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)

	_, err := f.sessions.Apply(ctx, id,
		session.Simple(session.EventSummaryGenerated),
		session.QuizCompleted(3, 2))
	assert.ErrorIs(t, err, session.ErrInvalidEvent)

	// The valid first event is rolled back with the invalid one
	assert.Equal(t, 0, f.state(t, id).XP)
	assert.Empty(t, f.inbox.Drain(id))
}

func TestSessionService_Recommendations(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.newSession(t)

	recs, err := f.sessions.Recommendations(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Focus on generating summaries to build foundational knowledge",
		"Start with easier quizzes to build your streak",
	}, recs)

	_, err = f.sessions.Recommendations(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
