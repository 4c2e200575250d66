package intent

import (
	"context"
	"fmt"

	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/pkg/cache"
)

// CatalogSource provides the persisted intent catalog. The relational
// archive implements it; tests use a static source.
type CatalogSource interface {
	// ListIntentNames returns the known intent labels, "unknown" included
	ListIntentNames(ctx context.Context) ([]string, error)
	// QuestionsForIntent returns the ordered scripted follow-up questions
	// for a non-"unknown" intent
	QuestionsForIntent(ctx context.Context, name string) ([]string, error)
}

const (
	intentsCacheKey      = "intent:catalog"
	questionsCachePrefix = "intent:questions:"
)

// Catalog serves the intent list and scripted questions through an
// in-memory cache so the hot chat path does not hit the database per turn.
type Catalog struct {
	source CatalogSource
	cache  *cache.Cache
}

// NewCatalog creates a cached view over the given source
func NewCatalog(source CatalogSource, c *cache.Cache) *Catalog {
	return &Catalog{source: source, cache: c}
}

// Intents returns the closed catalog of known intent labels
func (c *Catalog) Intents(ctx context.Context) ([]chat.IntentLabel, error) {
	if cached, ok := c.cache.Get(intentsCacheKey); ok {
		return cached.([]chat.IntentLabel), nil
	}

	names, err := c.source.ListIntentNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load intent catalog: %w", err)
	}

	labels := make([]chat.IntentLabel, 0, len(names))
	for _, name := range names {
		labels = append(labels, chat.IntentLabel(name))
	}

	c.cache.Set(intentsCacheKey, labels)
	return labels, nil
}

// Questions returns the ordered follow-up questions for an intent. The
// "unknown" intent has no script; callers get an empty slice.
func (c *Catalog) Questions(ctx context.Context, label chat.IntentLabel) ([]string, error) {
	if label == chat.IntentUnknown || label == "" {
		return nil, nil
	}

	key := questionsCachePrefix + string(label)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]string), nil
	}

	questions, err := c.source.QuestionsForIntent(ctx, string(label))
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for intent %q: %w", label, err)
	}

	c.cache.Set(key, questions)
	return questions, nil
}
