// Package llm implements the text-generation port on the OpenAI chat API.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

const requestTimeout = 30 * time.Second

// Client wraps the chat-completion API as a plain prompt-to-text call.
type Client struct {
	api   *openai.Client
	model string
}

var _ ports.TextGenerator = (*Client)(nil)

// NewClient builds a generator from configuration. A missing API key is a
// construction-time error so stages can surface it as a credential
// problem instead of per-call transport noise.
func NewClient(cfg config.OpenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Client{api: openai.NewClient(cfg.APIKey), model: model}, nil
}

// Generate sends the prompt as a single user message and returns the
// trimmed reply text. No response schema is enforced here; callers parse
// defensively.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
