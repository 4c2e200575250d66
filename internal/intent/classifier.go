package intent

import (
	"context"
	"fmt"
	"strings"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/internal/llm"
	apperrors "chat-intake-bot/backend/pkg/errors"
	"chat-intake-bot/backend/pkg/logger"
)

const classifyPrompt = `You are an intent classification assistant.
Possible intents are: %s

Based on this user message:
"%s"

Return only one intent from the list above. Do not explain.
If the intent does not exist in the list, then return "unknown".`

// Classifier maps a user message onto the closed intent catalog with a
// single model call per detection.
type Classifier struct {
	llm     llm.CompletionClient
	catalog *Catalog
	log     *logger.Logger
}

// NewClassifier creates an intent classifier
func NewClassifier(client llm.CompletionClient, catalog *Catalog, log *logger.Logger) *Classifier {
	return &Classifier{llm: client, catalog: catalog, log: log}
}

// Detect builds a deterministic prompt from the catalog and the message,
// invokes the model once and normalizes the output to a catalog label.
// Output that does not match any label exactly (after trimming) maps to
// "unknown"; no retry is attempted here.
func (c *Classifier) Detect(ctx context.Context, message string) (chat.IntentLabel, error) {
	labels, err := c.catalog.Intents(ctx)
	if err != nil {
		return "", apperrors.NewClassificationFailedError("failed to load intent catalog", err)
	}

	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, string(label))
	}

	prompt := fmt.Sprintf(classifyPrompt, strings.Join(names, ", "), message)
	raw, err := c.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: prompt},
		{Role: llm.RoleUser, Content: "Classify this message and return only the intent."},
	})
	if err != nil {
		return "", apperrors.NewClassificationFailedError("intent detection failed", err)
	}

	detected := normalize(raw)
	for _, label := range labels {
		if detected == strings.ToLower(string(label)) {
			return label, nil
		}
	}

	c.log.Warn("model returned unlisted intent", "raw", raw)
	return chat.IntentUnknown, nil
}

// normalize lower-cases the model output and strips whitespace and
// surrounding quote or period characters. Anything beyond that (verbose
// explanations, multiple labels) intentionally fails the match.
func normalize(raw string) string {
	out := strings.ToLower(strings.TrimSpace(raw))
	out = strings.Trim(out, "\"'`.")
	return strings.TrimSpace(out)
}
