package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session as one JSON record under a key equal to the
// session identifier.
type RedisStore struct {
	rdb   *redis.Client
	ttl   time.Duration
	locks *keyedMutex
	log   *logger.Logger
}

// NewRedisStore creates a session store on top of an existing redis client.
// ttl is applied on every write so each append refreshes the expiry; a ttl
// of 0 keeps sessions forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{
		rdb:   rdb,
		ttl:   ttl,
		locks: newKeyedMutex(),
		log:   log,
	}
}

func (s *RedisStore) Create(ctx context.Context, initial chat.Message) (string, error) {
	sessionID := uuid.NewString()
	s.log.Info("creating chat session", "session_id", sessionID)

	record := chat.Session{
		ID:       sessionID,
		Intent:   initial.Intent,
		Messages: []chat.Message{initial},
	}

	if err := s.set(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create session %s: %w", sessionID, err)
	}

	return sessionID, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (chat.Session, error) {
	s.log.Info("fetching chat session", "session_id", sessionID)

	raw, err := s.rdb.Get(ctx, sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return chat.Session{}, chat.ErrSessionNotFound
		}
		return chat.Session{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	var record chat.Session
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return chat.Session{}, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}

	return record, nil
}

// AppendMessage rewrites the whole record under a per-session lock so two
// concurrent appends to the same session cannot lose each other's update.
func (s *RedisStore) AppendMessage(ctx context.Context, sessionID string, msg chat.Message) error {
	s.log.Info("appending message to chat session", "session_id", sessionID, "role", msg.Role)

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	record, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	record.Messages = append(record.Messages, msg)
	if msg.Intent != "" {
		record.Intent = msg.Intent
	}

	if err := s.set(ctx, record); err != nil {
		return fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	s.log.Info("deleting chat session", "session_id", sessionID)

	removed, err := s.rdb.Del(ctx, sessionID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	if removed == 0 {
		return chat.ErrSessionNotFound
	}

	return nil
}

// Ping reports whether the backing redis server is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) set(ctx context.Context, record chat.Session) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.rdb.Set(ctx, record.ID, payload, s.ttl).Err()
}
