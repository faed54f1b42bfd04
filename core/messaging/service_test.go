package messaging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia-hq/academia/core"
	"github.com/academia-hq/academia/core/messaging"
	"github.com/academia-hq/academia/storage/database/inmem"
)

func newMessagingService(t *testing.T) messaging.Service {
	t.Helper()
	return messaging.NewService(inmemdb.NewMessagingRepository(inmemdb.NewDB()))
}

func TestSend(t *testing.T) {
	svc := newMessagingService(t)

	msg, err := svc.Send("alice", messaging.NewMessage{RecipientID: "bob", Body: "hey bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "bob", msg.RecipientID)
	assert.False(t, msg.SentAt.IsZero())
	assert.False(t, msg.IsRead())

	t.Run("self messaging rejected", func(t *testing.T) {
		_, err := svc.Send("alice", messaging.NewMessage{RecipientID: "alice", Body: "note to self"})
		require.Error(t, err)
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, messaging.ErrSelfMessaging, vErr.Err)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "recipient_id", vErr.Fields[0].Field)
	})
}

func TestInboxAndThread(t *testing.T) {
	svc := newMessagingService(t)

	_, err := svc.Send("alice", messaging.NewMessage{RecipientID: "bob", Body: "first"})
	require.NoError(t, err)
	_, err = svc.Send("bob", messaging.NewMessage{RecipientID: "alice", Body: "second"})
	require.NoError(t, err)
	_, err = svc.Send("carol", messaging.NewMessage{RecipientID: "bob", Body: "third"})
	require.NoError(t, err)

	t.Run("inbox holds received only", func(t *testing.T) {
		inbox, err := svc.Inbox("bob")
		require.NoError(t, err)
		require.Len(t, inbox, 2)
		for _, msg := range inbox {
			assert.Equal(t, "bob", msg.RecipientID)
		}

		inbox, err = svc.Inbox("carol")
		require.NoError(t, err)
		assert.Empty(t, inbox)
	})

	t.Run("thread holds both directions, oldest first", func(t *testing.T) {
		thread, err := svc.Thread("alice", "bob")
		require.NoError(t, err)
		require.Len(t, thread, 2)
		assert.Equal(t, "first", thread[0].Body)
		assert.Equal(t, "second", thread[1].Body)

		// symmetric
		reverse, err := svc.Thread("bob", "alice")
		require.NoError(t, err)
		assert.Equal(t, thread, reverse)

		empty, err := svc.Thread("alice", "carol")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestMarkRead(t *testing.T) {
	svc := newMessagingService(t)

	msg, err := svc.Send("alice", messaging.NewMessage{RecipientID: "bob", Body: "read me"})
	require.NoError(t, err)

	t.Run("recipient only", func(t *testing.T) {
		_, err := svc.MarkRead(msg.ID, "alice")
		assert.Equal(t, messaging.ErrNotFound, err)
		_, err = svc.MarkRead(msg.ID, "carol")
		assert.Equal(t, messaging.ErrNotFound, err)
	})

	t.Run("unknown message", func(t *testing.T) {
		_, err := svc.MarkRead("missing", "bob")
		assert.Equal(t, messaging.ErrNotFound, err)
	})

	t.Run("marks and stays idempotent", func(t *testing.T) {
		read, err := svc.MarkRead(msg.ID, "bob")
		require.NoError(t, err)
		assert.True(t, read.IsRead())

		again, err := svc.MarkRead(msg.ID, "bob")
		require.NoError(t, err)
		assert.Equal(t, read.ReadAt, again.ReadAt)
	})
}
