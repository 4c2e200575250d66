package chat_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/internal/session"
	apperrors "chat-intake-bot/backend/pkg/errors"
	"chat-intake-bot/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	label chat.IntentLabel
	err   error
	calls int
}

func (f *fakeDetector) Detect(context.Context, string) (chat.IntentLabel, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.label, nil
}

type fakeCatalog struct {
	questions map[chat.IntentLabel][]string
}

func (f *fakeCatalog) Questions(_ context.Context, label chat.IntentLabel) ([]string, error) {
	return f.questions[label], nil
}

type fakeResponder struct {
	reply string
	err   error

	lastHistory   []chat.Message
	lastQuestions []string
}

func (f *fakeResponder) Continue(_ context.Context, history []chat.Message, questions []string) (chat.Message, error) {
	f.lastHistory = history
	f.lastQuestions = questions
	if f.err != nil {
		return chat.Message{}, f.err
	}
	return chat.Message{
		Role:      chat.RoleAssistant,
		Content:   f.reply,
		Timestamp: time.Now().UTC(),
	}, nil
}

type recordingArchiver struct {
	mu    sync.Mutex
	turns int
}

func (a *recordingArchiver) RecordTurn(string, chat.Message, chat.Message, time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.turns++
}

type fixture struct {
	store     *session.MemoryStore
	detector  *fakeDetector
	responder *fakeResponder
	archiver  *recordingArchiver
	svc       *chat.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := session.NewMemoryStore()
	detector := &fakeDetector{label: chat.IntentBooking}
	catalog := &fakeCatalog{questions: map[chat.IntentLabel][]string{
		chat.IntentBooking: {"What service?", "What date?"},
	}}
	resp := &fakeResponder{reply: "What service are you interested in?"}
	archiver := &recordingArchiver{}
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})

	svc := chat.NewService(store, detector, catalog, resp, archiver, nil, log,
		chat.ServiceConfig{MaxMessageLength: 100})

	return &fixture{store: store, detector: detector, responder: resp, archiver: archiver, svc: svc}
}

func TestConverseNewSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, sessionID, err := f.svc.Converse(ctx, "", "I need an appointment")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, chat.RoleAssistant, reply.Role)
	assert.Equal(t, "What service are you interested in?", reply.Content)
	assert.Equal(t, chat.IntentBooking, reply.Intent)

	// Exactly two messages persisted, user first
	history, err := f.svc.History(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, chat.RoleUser, history[0].Role)
	assert.Equal(t, "I need an appointment", history[0].Content)
	assert.Equal(t, chat.IntentBooking, history[0].Intent)
	assert.Equal(t, chat.RoleAssistant, history[1].Role)

	assert.Equal(t, 1, f.archiver.turns)
}

func TestConverseExistingSessionSeesFullHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, sessionID, err := f.svc.Converse(ctx, "", "I need an appointment")
	require.NoError(t, err)

	_, _, err = f.svc.Converse(ctx, sessionID, "A haircut")
	require.NoError(t, err)

	// The responder saw every message up to and including the new one
	require.Len(t, f.responder.lastHistory, 3)
	assert.Equal(t, "A haircut", f.responder.lastHistory[2].Content)

	history, err := f.svc.History(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestConverseUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Converse(context.Background(), "no-such-session", "hello")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestConverseEmptyMessage(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Converse(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.Equal(t, 0, f.detector.calls, "validation happens before any model call")
}

func TestConverseOverlongMessage(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Converse(context.Background(), "", strings.Repeat("x", 101))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestConverseClassificationFailureLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, sessionID, err := f.svc.Converse(ctx, "", "I need an appointment")
	require.NoError(t, err)

	f.detector.err = apperrors.NewClassificationFailedError("intent detection failed", errors.New("model down"))
	_, _, err = f.svc.Converse(ctx, sessionID, "A haircut")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeClassificationFailed))

	// Classification runs before persistence, so nothing was appended
	history, err := f.svc.History(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestConverseGenerationFailureKeepsUserMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, sessionID, err := f.svc.Converse(ctx, "", "I need an appointment")
	require.NoError(t, err)

	f.responder.err = apperrors.NewGenerationFailedError("reply generation failed", errors.New("model down"))
	_, _, err = f.svc.Converse(ctx, sessionID, "A haircut")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeGenerationFailed))

	// The user message survives the failed turn
	history, err := f.svc.History(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "A haircut", history[2].Content)
	assert.Equal(t, chat.RoleUser, history[2].Role)
}

func TestConverseUnknownIntentUsesFallbackScript(t *testing.T) {
	f := newFixture(t)
	f.detector.label = chat.IntentUnknown

	reply, _, err := f.svc.Converse(context.Background(), "", "what is the weather like")
	require.NoError(t, err)
	assert.Equal(t, chat.IntentUnknown, reply.Intent)
	require.NotEmpty(t, f.responder.lastQuestions, "unknown intent still gets a clarifying script")
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessionID, err := f.svc.StartSession(ctx, "hello there")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	history, err := f.svc.History(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hello there", history[0].Content)

	_, err = f.svc.StartSession(ctx, "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessionID, err := f.svc.StartSession(ctx, "hello")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSession(ctx, sessionID))

	err = f.svc.DeleteSession(ctx, sessionID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = f.svc.History(ctx, sessionID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
