package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"chat-intake-bot/backend/internal/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMessage(content string) chat.Message {
	return chat.Message{
		Role:      chat.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	msg := userMessage("hello")
	sessionID, err := store.Create(ctx, msg)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	record, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, record.ID)
	require.Len(t, record.Messages, 1)
	assert.Equal(t, "hello", record.Messages[0].Content)
}

func TestMemoryStoreGetUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestMemoryStoreSequentialAppendsKeepOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sessionID, err := store.Create(ctx, userMessage("m0"))
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.AppendMessage(ctx, sessionID, userMessage(fmt.Sprintf("m%d", i))))
	}

	record, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, record.Messages, 6)
	for i, msg := range record.Messages {
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.Content)
	}
}

func TestMemoryStoreAppendToUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	err := store.AppendMessage(context.Background(), "no-such-session", userMessage("hi"))
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestMemoryStoreAppendTracksIntent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sessionID, err := store.Create(ctx, userMessage("hello"))
	require.NoError(t, err)

	msg := userMessage("book me in")
	msg.Intent = chat.IntentBooking
	require.NoError(t, store.AppendMessage(ctx, sessionID, msg))

	record, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, chat.IntentBooking, record.Intent)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sessionID, err := store.Create(ctx, userMessage("hello"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sessionID))

	// Deleting twice fails with not found the second time
	assert.ErrorIs(t, store.Delete(ctx, sessionID), chat.ErrSessionNotFound)

	_, err = store.Get(ctx, sessionID)
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestMemoryStoreConcurrentAppendsLoseNothing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sessionID, err := store.Create(ctx, userMessage("m0"))
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.AppendMessage(ctx, sessionID, userMessage(fmt.Sprintf("c%d", i))))
		}(i)
	}
	wg.Wait()

	record, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, record.Messages, writers+1, "every concurrent append must be reflected")
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sessionID, err := store.Create(ctx, userMessage("hello"))
	require.NoError(t, err)

	record, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	record.Messages[0].Content = "mutated"

	fresh, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "hello", fresh.Messages[0].Content)
}
