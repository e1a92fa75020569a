package validation

import (
	"fmt"
	"time"

	"github.com/user/tddguard/internal/config"
	tddcontext "github.com/user/tddguard/internal/context"
	"github.com/user/tddguard/pkg/llm"
	"github.com/user/tddguard/pkg/llm/anthropic"
	"github.com/user/tddguard/pkg/llm/claudecli"
	"github.com/user/tddguard/pkg/llm/openai"
)

// NewModelClient builds the client selected by cfg.Model.Type. workDir is
// the project directory the claude CLI runs under.
func NewModelClient(cfg *config.Config, workDir string) (llm.ModelClient, error) {
	m := cfg.Model
	timeout := time.Duration(m.TimeoutSeconds) * time.Second

	llmCfg := &llm.Config{
		BaseURL:   m.BaseURL,
		APIKey:    m.APIKey,
		Model:     m.Model,
		MaxTokens: m.MaxTokens,
		Timeout:   timeout,
		Retry:     retryPolicy(m.RetryAttempts),
	}

	switch m.Type {
	case config.ModelClaudeCLI, "":
		return claudecli.New(claudecli.Options{
			Binary:    m.ClaudeBinary,
			UseSystem: m.UseSystemClaude,
			WorkDir:   workDir,
			Timeout:   timeout,
		}), nil
	case config.ModelAnthropicAPI:
		if m.APIKey == "" {
			return nil, fmt.Errorf("model type %s requires an API key", m.Type)
		}
		return anthropic.New(llmCfg), nil
	case config.ModelOpenAI:
		if m.APIKey == "" && m.BaseURL == "" {
			return nil, fmt.Errorf("model type %s requires an API key", m.Type)
		}
		if llmCfg.Model == "" {
			llmCfg.Model = "gpt-4o"
		}
		return openai.New(llmCfg), nil
	default:
		return nil, fmt.Errorf("unknown model type: %s", m.Type)
	}
}

func retryPolicy(attempts int) *llm.RetryPolicy {
	if attempts <= 1 {
		return llm.NoRetry()
	}
	p := llm.DefaultRetryPolicy()
	p.MaxAttempts = attempts
	return p
}

// FromConfig builds a Validator with the configured client and prompt
// budget.
func FromConfig(cfg *config.Config, workDir string) (*Validator, error) {
	client, err := NewModelClient(cfg, workDir)
	if err != nil {
		return nil, err
	}
	engine, err := tddcontext.New(cfg.Model.Model, cfg.Model.MaxPromptTokens)
	if err != nil {
		return nil, err
	}
	backend := cfg.Model.Type
	if backend == "" {
		backend = config.ModelClaudeCLI
	}
	return New(client, engine, backend), nil
}
