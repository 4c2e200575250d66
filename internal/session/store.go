package session

import (
	"context"

	"chat-intake-bot/backend/internal/chat"
)

// Store persists chat sessions keyed by their generated identifier.
// Absent records surface as chat.ErrSessionNotFound.
//
// AppendMessage reads the whole record, mutates it and rewrites it, so
// implementations must serialize concurrent appends to the same session or
// updates would be lost.
type Store interface {
	// Create generates a new unique identifier and persists a session
	// containing exactly the initial message
	Create(ctx context.Context, initial chat.Message) (string, error)
	// Get returns the full session for the identifier
	Get(ctx context.Context, sessionID string) (chat.Session, error)
	// AppendMessage appends msg to the end of the stored sequence
	AppendMessage(ctx context.Context, sessionID string, msg chat.Message) error
	// Delete removes the session record
	Delete(ctx context.Context, sessionID string) error
}
