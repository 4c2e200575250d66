package archive

import (
	"time"
)

// ChatUser is an optional identified end user. Sessions may exist without
// one; the chat surface itself is anonymous.
type ChatUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`

	Sessions []ChatSession `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// ChatSession mirrors a cache-resident session into the durable archive.
// SessionToken equals the opaque identifier handed to the client.
type ChatSession struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SessionToken  string    `json:"session_token" gorm:"uniqueIndex;size:128"`
	UserID        *uint     `json:"user_id" gorm:"index"`
	CurrentIntent string    `json:"current_intent"`
	Status        string    `json:"status" gorm:"default:active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Messages        []ChatMessage         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Contexts        []ConversationContext `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PromptHistories []PromptHistory       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Analytics       []AnalyticsRecord     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Leads           []Lead                `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// ChatMessage is one archived chat turn entry
type ChatMessage struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChatSessionID uint      `json:"chat_session_id" gorm:"index"`
	Role          string    `json:"role"`
	Content       string    `json:"content" gorm:"type:text"`
	Intent        string    `json:"intent"`
	Timestamp     time.Time `json:"timestamp"`
	CreatedAt     time.Time `json:"created_at"`

	Feedback   []Feedback  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Embeddings []Embedding `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Intent is one catalog entry; non-"unknown" intents carry a question script
type Intent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Questions []Question `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Question is one scripted follow-up question, ordered within its intent
type Question struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	IntentID   uint      `json:"intent_id" gorm:"index"`
	Text       string    `json:"text" gorm:"type:text"`
	OrderIndex int       `json:"order_index"`
	IsRequired bool      `json:"is_required" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
}

// SystemPrompt is a named prompt template kept for audit and tuning
type SystemPrompt struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex"`
	Template  string    `json:"template" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyticsRecord captures per-turn statistics, written off the hot path
type AnalyticsRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ChatSessionID  uint      `json:"chat_session_id" gorm:"index"`
	DetectedIntent string    `json:"detected_intent"`
	TurnLatencyMs  int64     `json:"turn_latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationContext stores derived context snapshots for a session
type ConversationContext struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChatSessionID uint      `json:"chat_session_id" gorm:"index"`
	Summary       string    `json:"summary" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// Embedding stores a serialized vector for a message
type Embedding struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChatMessageID uint      `json:"chat_message_id" gorm:"index"`
	Model         string    `json:"model"`
	Vector        string    `json:"vector" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// PromptHistory records the prompt/response pair behind an assistant reply
type PromptHistory struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChatSessionID uint      `json:"chat_session_id" gorm:"index"`
	Prompt        string    `json:"prompt" gorm:"type:text"`
	Response      string    `json:"response" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// Feedback is an end-user rating of a single assistant message
type Feedback struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChatMessageID uint      `json:"chat_message_id" gorm:"index"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// Lead is contact data collected during an intake conversation
type Lead struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChatSessionID uint      `json:"chat_session_id" gorm:"index"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// AllModels lists every archived entity for migration
func AllModels() []any {
	return []any{
		&ChatUser{},
		&ChatSession{},
		&ChatMessage{},
		&Intent{},
		&Question{},
		&SystemPrompt{},
		&AnalyticsRecord{},
		&ConversationContext{},
		&Embedding{},
		&PromptHistory{},
		&Feedback{},
		&Lead{},
	}
}
