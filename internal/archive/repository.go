package archive

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository provides create/read access to the relational archive. It is
// a passive record store: nothing on the hot chat path depends on it.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates an archive repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListIntentNames returns the names of every catalog intent
func (r *Repository) ListIntentNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&Intent{}).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

// QuestionsForIntent returns the scripted questions for an intent in script order
func (r *Repository) QuestionsForIntent(ctx context.Context, name string) ([]string, error) {
	var intent Intent
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var questions []string
	err = r.db.WithContext(ctx).
		Model(&Question{}).
		Where("intent_id = ?", intent.ID).
		Order("order_index ASC").
		Pluck("text", &questions).Error
	return questions, err
}

// EnsureSession returns the archived session row for a token, creating it
// on first sight
func (r *Repository) EnsureSession(ctx context.Context, token string) (*ChatSession, error) {
	var session ChatSession
	err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&session).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session = ChatSession{SessionToken: token, Status: "active"}
	if err := r.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSessionIntent records the most recent detected intent on the session row
func (r *Repository) UpdateSessionIntent(ctx context.Context, sessionID uint, intent string) error {
	return r.db.WithContext(ctx).
		Model(&ChatSession{}).
		Where("id = ?", sessionID).
		Update("current_intent", intent).Error
}

// SaveMessages appends archived copies of chat messages to a session
func (r *Repository) SaveMessages(ctx context.Context, messages []ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&messages).Error
}

// SaveAnalytics stores one per-turn analytics record
func (r *Repository) SaveAnalytics(ctx context.Context, record *AnalyticsRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// MessagesForSession reads back the archived history for a session token
func (r *Repository) MessagesForSession(ctx context.Context, token string) ([]ChatMessage, error) {
	var session ChatSession
	err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var messages []ChatMessage
	err = r.db.WithContext(ctx).
		Where("chat_session_id = ?", session.ID).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}
