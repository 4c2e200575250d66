package chat

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotFound is returned by session stores when no record exists
// for an identifier. Any other store error means the backing store is
// unavailable.
var ErrSessionNotFound = errors.New("session not found")

// Role identifies the sender of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a wire-format role string
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAssistant:
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// IntentLabel is one entry of the closed intent catalog
type IntentLabel string

const (
	IntentBooking  IntentLabel = "booking"
	IntentQuote    IntentLabel = "quote"
	IntentAccounts IntentLabel = "accounts"
	IntentUnknown  IntentLabel = "unknown"
)

// Message is a single chat turn entry. Messages are immutable once appended
// to a session.
type Message struct {
	Role      Role        `json:"role"`
	Content   string      `json:"message"`
	Intent    IntentLabel `json:"intent,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Session is one ongoing conversation: an opaque identifier plus an ordered,
// append-only message history. Insertion order is chronological order.
type Session struct {
	ID       string      `json:"session_id"`
	Form     string      `json:"form,omitempty"`
	Intent   IntentLabel `json:"intent,omitempty"`
	Messages []Message   `json:"messages"`
}
