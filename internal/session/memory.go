package session

import (
	"context"
	"sync"

	"chat-intake-bot/backend/internal/chat"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local development.
// It honors the same append-only and locking semantics as RedisStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]chat.Session)}
}

func (s *MemoryStore) Create(_ context.Context, initial chat.Message) (string, error) {
	sessionID := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = chat.Session{
		ID:       sessionID,
		Intent:   initial.Intent,
		Messages: []chat.Message{initial},
	}

	return sessionID, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, chat.ErrSessionNotFound
	}

	// Copy the message slice so callers cannot mutate stored history
	out := record
	out.Messages = append([]chat.Message(nil), record.Messages...)
	return out, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, sessionID string, msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.sessions[sessionID]
	if !ok {
		return chat.ErrSessionNotFound
	}

	record.Messages = append(record.Messages, msg)
	if msg.Intent != "" {
		record.Intent = msg.Intent
	}
	s.sessions[sessionID] = record

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return chat.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)

	return nil
}
