package intent

import (
	"context"
	"testing"
	"time"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCachesIntentList(t *testing.T) {
	source := &staticSource{intents: []string{"booking", "unknown"}}
	catalog := NewCatalog(source, cache.New(time.Minute, time.Minute, 100))
	ctx := context.Background()

	first, err := catalog.Intents(ctx)
	require.NoError(t, err)
	second, err := catalog.Intents(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.listCalls, "second read must hit the cache")
}

func TestCatalogQuestions(t *testing.T) {
	source := &staticSource{
		intents: []string{"booking", "unknown"},
		questions: map[string][]string{
			"booking": {"What service?", "What date?"},
		},
	}
	catalog := NewCatalog(source, cache.New(time.Minute, time.Minute, 100))

	questions, err := catalog.Questions(context.Background(), chat.IntentBooking)
	require.NoError(t, err)
	assert.Equal(t, []string{"What service?", "What date?"}, questions)
}

func TestCatalogUnknownIntentHasNoScript(t *testing.T) {
	source := &staticSource{intents: []string{"unknown"}}
	catalog := NewCatalog(source, cache.New(time.Minute, time.Minute, 100))

	questions, err := catalog.Questions(context.Background(), chat.IntentUnknown)
	require.NoError(t, err)
	assert.Empty(t, questions)

	questions, err = catalog.Questions(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, questions)
}
