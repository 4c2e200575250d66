package chat

import (
	"context"
	"errors"
	"time"

	"chat-intake-bot/backend/internal/observability"
	apperrors "chat-intake-bot/backend/pkg/errors"
	"chat-intake-bot/backend/pkg/logger"
)

// SessionStore is the slice of the session store the orchestrator needs
type SessionStore interface {
	Create(ctx context.Context, initial Message) (string, error)
	Get(ctx context.Context, sessionID string) (Session, error)
	AppendMessage(ctx context.Context, sessionID string, msg Message) error
	Delete(ctx context.Context, sessionID string) error
}

// IntentDetector classifies one message against the intent catalog
type IntentDetector interface {
	Detect(ctx context.Context, message string) (IntentLabel, error)
}

// QuestionCatalog resolves the scripted questions for an intent
type QuestionCatalog interface {
	Questions(ctx context.Context, label IntentLabel) ([]string, error)
}

// ReplyGenerator produces the next assistant message for a session
type ReplyGenerator interface {
	Continue(ctx context.Context, history []Message, questions []string) (Message, error)
}

// TurnArchiver mirrors completed turns into the record store, off the hot path
type TurnArchiver interface {
	RecordTurn(sessionID string, userMsg, reply Message, latency time.Duration)
}

// fallbackQuestions steers the conversation when no catalog intent matched,
// so an "unknown" turn still produces a useful reply instead of an error
var fallbackQuestions = []string{
	"Could you tell me a bit more about what you need help with? I can help with bookings, quotes and account questions.",
}

// ServiceConfig carries orchestrator settings
type ServiceConfig struct {
	// MaxMessageLength bounds inbound message content; 0 disables the check
	MaxMessageLength int
}

// Service sequences one chat turn: classify the message, persist it, read
// the full history back, generate the assistant reply and persist that too.
//
// Turns are not atomic: a failure after the user message is appended leaves
// it in the session (at-least-once, no compensation).
type Service struct {
	store     SessionStore
	detector  IntentDetector
	catalog   QuestionCatalog
	responder ReplyGenerator
	archiver  TurnArchiver
	metrics   *observability.Metrics
	log       *logger.Logger
	cfg       ServiceConfig
}

// NewService wires the orchestrator from its collaborators. archiver and
// metrics may be nil.
func NewService(
	store SessionStore,
	detector IntentDetector,
	catalog QuestionCatalog,
	responder ReplyGenerator,
	archiver TurnArchiver,
	metrics *observability.Metrics,
	log *logger.Logger,
	cfg ServiceConfig,
) *Service {
	return &Service{
		store:     store,
		detector:  detector,
		catalog:   catalog,
		responder: responder,
		archiver:  archiver,
		metrics:   metrics,
		log:       log,
		cfg:       cfg,
	}
}

// Converse handles one inbound user message and returns the assistant
// reply together with the session identifier (freshly generated when
// sessionID was empty).
//
// Classification runs before the message is persisted so the stored record
// always carries its detected intent.
func (s *Service) Converse(ctx context.Context, sessionID, content string) (Message, string, error) {
	if err := s.validateContent(content); err != nil {
		return Message{}, "", err
	}

	start := time.Now()

	detected, err := s.detector.Detect(ctx, content)
	if err != nil {
		return Message{}, "", err
	}

	userMsg := Message{
		Role:      RoleUser,
		Content:   content,
		Intent:    detected,
		Timestamp: time.Now().UTC(),
	}

	if sessionID == "" {
		sessionID, err = s.store.Create(ctx, userMsg)
		if err != nil {
			return Message{}, "", storeError(err, "failed to create session")
		}
	} else {
		if err := s.store.AppendMessage(ctx, sessionID, userMsg); err != nil {
			return Message{}, "", storeError(err, "failed to persist message")
		}
	}

	// Read the full up-to-date history, the turn just appended included,
	// so the reply is grounded in every prior message
	record, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Message{}, "", storeError(err, "failed to load session history")
	}

	questions, err := s.catalog.Questions(ctx, detected)
	if err != nil {
		return Message{}, "", apperrors.NewStorageUnavailableError("failed to load question script", err)
	}
	if len(questions) == 0 {
		questions = fallbackQuestions
	}

	reply, err := s.responder.Continue(ctx, record.Messages, questions)
	if err != nil {
		return Message{}, "", err
	}
	reply.Intent = detected

	if err := s.store.AppendMessage(ctx, sessionID, reply); err != nil {
		return Message{}, "", storeError(err, "failed to persist reply")
	}

	latency := time.Since(start)
	if s.archiver != nil {
		s.archiver.RecordTurn(sessionID, userMsg, reply, latency)
	}
	s.metrics.ObserveTurn(string(detected), latency)

	s.log.Info("chat turn completed",
		"session_id", sessionID,
		"intent", detected,
		"latency_ms", latency.Milliseconds(),
	)

	return reply, sessionID, nil
}

// StartSession creates a new session containing exactly the initial user
// message and returns its identifier.
func (s *Service) StartSession(ctx context.Context, content string) (string, error) {
	if err := s.validateContent(content); err != nil {
		return "", err
	}

	msg := Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	sessionID, err := s.store.Create(ctx, msg)
	if err != nil {
		return "", storeError(err, "failed to create session")
	}

	return sessionID, nil
}

// History returns the full ordered message history of a session
func (s *Service) History(ctx context.Context, sessionID string) ([]Message, error) {
	record, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, storeError(err, "failed to load session")
	}
	return record.Messages, nil
}

// DeleteSession removes a session and its history
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return storeError(err, "failed to delete session")
	}
	return nil
}

func (s *Service) validateContent(content string) error {
	if content == "" {
		return apperrors.NewInvalidInputError("message must not be empty")
	}
	if s.cfg.MaxMessageLength > 0 && len(content) > s.cfg.MaxMessageLength {
		return apperrors.NewInvalidInputError("message exceeds maximum length")
	}
	return nil
}

// storeError maps session store failures onto the error taxonomy
func storeError(err error, msg string) error {
	if errors.Is(err, ErrSessionNotFound) {
		return apperrors.NewNotFoundError("session not found")
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewStorageUnavailableError(msg, err)
}
