package responder

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/internal/llm"
	apperrors "chat-intake-bot/backend/pkg/errors"
	"chat-intake-bot/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error

	lastSent []llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.lastSent = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func sampleHistory() []chat.Message {
	return []chat.Message{
		{Role: chat.RoleUser, Content: "I need an appointment", Timestamp: time.Now().UTC()},
		{Role: chat.RoleAssistant, Content: "What service are you interested in?", Timestamp: time.Now().UTC()},
		{Role: chat.RoleUser, Content: "A haircut", Timestamp: time.Now().UTC()},
	}
}

func TestContinueProducesAssistantReply(t *testing.T) {
	completer := &fakeCompleter{reply: "Great, what date works for you?"}
	r := New(completer, testLogger())

	before := time.Now().UTC()
	reply, err := r.Continue(context.Background(), sampleHistory(), []string{"What service?", "What date?"})
	require.NoError(t, err)

	assert.Equal(t, chat.RoleAssistant, reply.Role)
	assert.Equal(t, "Great, what date works for you?", reply.Content)
	assert.False(t, reply.Timestamp.Before(before))
}

func TestContinueEmptyHistory(t *testing.T) {
	r := New(&fakeCompleter{reply: "hi"}, testLogger())

	_, err := r.Continue(context.Background(), nil, []string{"What service?"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestContinueEmptyQuestions(t *testing.T) {
	r := New(&fakeCompleter{reply: "hi"}, testLogger())

	_, err := r.Continue(context.Background(), sampleHistory(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestContinueModelFailure(t *testing.T) {
	r := New(&fakeCompleter{err: errors.New("model unavailable")}, testLogger())

	_, err := r.Continue(context.Background(), sampleHistory(), []string{"What service?"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeGenerationFailed))
}

func TestContinuePromptCarriesScriptAndHistory(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	r := New(completer, testLogger())

	history := sampleHistory()
	_, err := r.Continue(context.Background(), history, []string{"What service?", "What date?"})
	require.NoError(t, err)

	require.NotEmpty(t, completer.lastSent)
	system := completer.lastSent[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "What service?\nWhat date?")
	assert.Contains(t, system.Content, "user: I need an appointment")
	assert.Contains(t, system.Content, "assistant: What service are you interested in?")

	// History is replayed after the system prompt in the provider's roles
	require.Len(t, completer.lastSent, len(history)+1)
	assert.Equal(t, llm.RoleUser, completer.lastSent[1].Role)
	assert.Equal(t, llm.RoleAssistant, completer.lastSent[2].Role)
	assert.Equal(t, "A haircut", completer.lastSent[3].Content)
}
