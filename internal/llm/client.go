package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Provider role taxonomy
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a completion request
type Message struct {
	Role    string
	Content string
}

// CompletionClient is an opaque function from prompt messages to text.
// The classifier and the responder both depend on this interface so tests
// can substitute a fake.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config carries the provider settings for the OpenAI-compatible client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	// CallTimeout bounds every individual model call
	CallTimeout time.Duration
}

// Client calls an OpenAI-compatible chat completion endpoint
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewClient creates a completion client from the provider configuration
func NewClient(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:         openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     timeout,
	}
}

// Complete invokes the model exactly once and returns its raw text output
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		TopP:        1,
		N:           1,
		Messages:    reqMessages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
