// Package anthropic implements llm.ModelClient on the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/user/tddguard/pkg/llm"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 1024
)

var ErrEmptyResponse = errors.New("no text content in response")

// Client sends prompts as a single user message.
type Client struct {
	client    anthropicsdk.Client
	model     anthropicsdk.Model
	maxTokens int64
	retry     *llm.RetryPolicy
}

// New creates a client. Retries are handled by the configured policy, so
// the SDK's own retries are disabled.
func New(config *llm.Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Client{
		client:    anthropicsdk.NewClient(opts...),
		model:     anthropicsdk.Model(model),
		maxTokens: int64(maxTokens),
		retry:     config.RetryPolicy(),
	}
}

// Ask returns the text of the first text block in the reply.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	params := anthropicsdk.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt)),
		},
	}

	var text string
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		msg, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return fmt.Errorf("anthropic messages call: %w", err)
		}
		for _, block := range msg.Content {
			if tb, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
				text = tb.Text
				return nil
			}
		}
		return ErrEmptyResponse
	})
	return text, err
}
