package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/internal/llm"
	apperrors "chat-intake-bot/backend/pkg/errors"
	"chat-intake-bot/backend/pkg/logger"
)

const continuePrompt = `You are an intelligent and helpful assistant. Your role is to interact with the user by asking specific questions from a fixed script, and by responding accurately and politely to any user questions. You will also be provided with previous chat history, and your responses should continue the conversation seamlessly from where it left off. Follow these rules strictly:

1. Always ask the questions provided below. Do not change the subject of the question.
2. Keep the conversation strictly on topic. Do not introduce unrelated topics or personal opinions.
3. Continue the conversation naturally from the last message without repeating or skipping questions unless the user indicates otherwise.
4. Provide clear, concise, and informative answers to any user questions, but always relate them back to the topic of the current question.
5. Do not speculate outside of the information provided by the user, the chat history, or the scripted questions.
6. If the user's question is unclear, ask clarifying questions without changing the subject.
7. After answering a user question, continue with the next scripted question in order, unless instructed otherwise.
8. Maintain a professional, friendly, and engaging tone at all times.

Questions to ask (do not modify these):
%s

Previous chat history (use this to continue the conversation naturally):
%s

Now continue the conversation.`

// Responder generates the next assistant reply for a session, steering the
// model through an ordered list of scripted follow-up questions. The
// one-question-at-a-time ordering is a prompting convention, not a state
// machine enforced here.
type Responder struct {
	llm llm.CompletionClient
	log *logger.Logger
}

// New creates a conversation responder
func New(client llm.CompletionClient, log *logger.Logger) *Responder {
	return &Responder{llm: client, log: log}
}

// Continue generates an assistant reply grounded in the full history and the
// scripted questions for the current intent. Both inputs must be non-empty.
func (r *Responder) Continue(ctx context.Context, history []chat.Message, questions []string) (chat.Message, error) {
	if len(history) == 0 {
		return chat.Message{}, apperrors.NewInvalidInputError("chat history is empty")
	}
	if len(questions) == 0 {
		return chat.Message{}, apperrors.NewInvalidInputError("questions cannot be empty")
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}

	prompt := fmt.Sprintf(continuePrompt, strings.Join(questions, "\n"), strings.Join(lines, "\n"))

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompt})
	for _, msg := range history {
		role, ok := providerRole(msg.Role)
		if !ok {
			r.log.Warn("skipping message with unknown role", "role", msg.Role)
			continue
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}

	text, err := r.llm.Complete(ctx, messages)
	if err != nil {
		return chat.Message{}, apperrors.NewGenerationFailedError("reply generation failed", err)
	}

	return chat.Message{
		Role:      chat.RoleAssistant,
		Content:   text,
		Timestamp: time.Now().UTC(),
	}, nil
}

// providerRole maps a chat role onto the model's native role taxonomy
func providerRole(role chat.Role) (string, bool) {
	switch role {
	case chat.RoleUser:
		return llm.RoleUser, true
	case chat.RoleAssistant:
		return llm.RoleAssistant, true
	default:
		return "", false
	}
}
