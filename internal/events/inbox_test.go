package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox(t *testing.T) {
	t.Parallel()

	inbox := NewInbox(2)
	a, b := uuid.New(), uuid.New()

	var sent []*Event
	for i := 0; i < 3; i++ {
		e, err := NewEvent(TypeNotification, a, i)
		require.NoError(t, err)
		require.NoError(t, inbox.HandleEvent(context.Background(), e))
		sent = append(sent, e)
	}

	got := inbox.Drain(a)
	assert.Equal(t, sent[1:], got, "oldest event dropped")
	assert.Empty(t, inbox.Drain(a), "drain forgets")
	assert.NotNil(t, inbox.Drain(b))
	assert.Empty(t, inbox.Drain(b))
}

func TestNewInbox_DefaultSize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultInboxSize, NewInbox(0).size)
}
