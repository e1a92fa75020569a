package llm

import (
	"context"
	"time"
)

// ModelClient sends a single prompt to a reasoning backend and returns the
// raw response text. Implementations handle transport, authentication and
// their own timeouts and retries.
type ModelClient interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Config holds common configuration for model clients.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// Retry is applied to API calls. Nil means DefaultRetryPolicy.
	Retry *RetryPolicy
}

// RetryPolicy returns the configured policy or the default.
func (c *Config) RetryPolicy() *RetryPolicy {
	if c.Retry != nil {
		return c.Retry
	}
	return DefaultRetryPolicy()
}
