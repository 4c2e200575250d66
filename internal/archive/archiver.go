package archive

import (
	"context"
	"time"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/pkg/logger"

	"github.com/sourcegraph/conc"
)

// Archiver mirrors completed chat turns into the relational archive in the
// background. A failed archive write never fails the turn that produced it.
type Archiver struct {
	repo    *Repository
	log     *logger.Logger
	wg      conc.WaitGroup
	timeout time.Duration
}

// NewArchiver creates an archiver over the given repository
func NewArchiver(repo *Repository, log *logger.Logger) *Archiver {
	return &Archiver{
		repo:    repo,
		log:     log,
		timeout: 10 * time.Second,
	}
}

// RecordTurn asynchronously archives one completed turn: the session row,
// both messages and a per-turn analytics record.
func (a *Archiver) RecordTurn(sessionID string, userMsg, reply chat.Message, latency time.Duration) {
	a.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		session, err := a.repo.EnsureSession(ctx, sessionID)
		if err != nil {
			a.log.LogError(err, "failed to archive session", "session_id", sessionID)
			return
		}

		if userMsg.Intent != "" {
			if err := a.repo.UpdateSessionIntent(ctx, session.ID, string(userMsg.Intent)); err != nil {
				a.log.LogError(err, "failed to archive session intent", "session_id", sessionID)
			}
		}

		messages := []ChatMessage{
			{
				ChatSessionID: session.ID,
				Role:          string(userMsg.Role),
				Content:       userMsg.Content,
				Intent:        string(userMsg.Intent),
				Timestamp:     userMsg.Timestamp,
			},
			{
				ChatSessionID: session.ID,
				Role:          string(reply.Role),
				Content:       reply.Content,
				Intent:        string(reply.Intent),
				Timestamp:     reply.Timestamp,
			},
		}
		if err := a.repo.SaveMessages(ctx, messages); err != nil {
			a.log.LogError(err, "failed to archive messages", "session_id", sessionID)
			return
		}

		record := &AnalyticsRecord{
			ChatSessionID:  session.ID,
			DetectedIntent: string(userMsg.Intent),
			TurnLatencyMs:  latency.Milliseconds(),
		}
		if err := a.repo.SaveAnalytics(ctx, record); err != nil {
			a.log.LogError(err, "failed to archive analytics", "session_id", sessionID)
		}
	})
}

// Close waits for in-flight archive writes to finish
func (a *Archiver) Close() {
	if recovered := a.wg.WaitAndRecover(); recovered != nil {
		a.log.Error("archiver goroutine panicked", "error", recovered.Value)
	}
}
