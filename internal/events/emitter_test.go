package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newNotification(t *testing.T) *Event {
	t.Helper()
	event, err := NewEvent(TypeNotification, uuid.New(), map[string]string{"message": "+15 XP"})
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter_NoHandlers(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEventEmitter(discardLogger())
	assert.NoError(t, emitter.EmitEvent(context.Background(), newNotification(t)))
}

func TestInMemoryEventEmitter_NilEvent(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEventEmitter(nil)
	assert.Error(t, emitter.EmitEvent(context.Background(), nil))
}

func TestInMemoryEventEmitter_Subscriptions(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEventEmitter(discardLogger())

	all := &MockEventHandler{}
	dueOnly := &MockEventHandler{}
	emitter.RegisterHandler(all)
	emitter.RegisterHandler(dueOnly, TypeReviewDue)

	note := newNotification(t)
	require.NoError(t, emitter.EmitEvent(context.Background(), note))
	assert.Equal(t, 1, all.HandledCount)
	assert.Equal(t, 0, dueOnly.HandledCount)

	due, err := NewEvent(TypeReviewDue, uuid.New(), ReviewDuePayload{DueCount: 4})
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(context.Background(), due))
	assert.Equal(t, 2, all.HandledCount)
	assert.Equal(t, 1, dueOnly.HandledCount)
	assert.Same(t, due, dueOnly.LastEvent)
}

func TestInMemoryEventEmitter_FailingHandlers(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEventEmitter(discardLogger())

	errFirst := errors.New("inbox full")
	errSecond := errors.New("closed")
	first := &MockEventHandler{HandlerError: errFirst}
	ok := &MockEventHandler{}
	second := &MockEventHandler{HandlerError: errSecond}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(ok)
	emitter.RegisterHandler(second)

	err := emitter.EmitEvent(context.Background(), newNotification(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)

	// later handlers still ran
	assert.Equal(t, 1, ok.HandledCount)
	assert.Equal(t, 1, second.HandledCount)
}
