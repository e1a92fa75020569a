package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file location relative to the project root.
const DefaultPath = ".claude/tdd-guard/config.json"

// Model client types.
const (
	ModelClaudeCLI    = "claude_cli"
	ModelAnthropicAPI = "anthropic_api"
	ModelOpenAI       = "openai"
)

type Config struct {
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	LogLevel string `json:"log_level" yaml:"log_level"`
	Storage  struct {
		Driver string `json:"driver" yaml:"driver"`
	} `json:"storage" yaml:"storage"`
	Model struct {
		Type            string `json:"type" yaml:"type"`
		Model           string `json:"model" yaml:"model"`
		APIKey          string `json:"api_key" yaml:"api_key"`
		BaseURL         string `json:"base_url" yaml:"base_url"`
		MaxTokens       int    `json:"max_tokens" yaml:"max_tokens"`
		TimeoutSeconds  int    `json:"timeout_seconds" yaml:"timeout_seconds"`
		ClaudeBinary    string `json:"claude_binary" yaml:"claude_binary"`
		UseSystemClaude bool   `json:"use_system_claude" yaml:"use_system_claude"`
		MaxPromptTokens int    `json:"max_prompt_tokens" yaml:"max_prompt_tokens"`
		RetryAttempts   int    `json:"retry_attempts" yaml:"retry_attempts"`
	} `json:"model" yaml:"model"`
	Linter struct {
		Type           string `json:"type" yaml:"type"`
		ConfigPath     string `json:"config_path" yaml:"config_path"`
		TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	} `json:"linter" yaml:"linter"`
	Guard struct {
		IgnorePatterns []string `json:"ignore_patterns" yaml:"ignore_patterns"`
	} `json:"guard" yaml:"guard"`
	Audit struct {
		Enabled bool `json:"enabled" yaml:"enabled"`
	} `json:"audit" yaml:"audit"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		DataDir:  filepath.Join(".claude", "tdd-guard", "data"),
		LogLevel: "warn",
	}
	cfg.Storage.Driver = "file"
	cfg.Model.Type = ModelClaudeCLI
	cfg.Model.MaxTokens = 1024
	cfg.Model.TimeoutSeconds = 60
	cfg.Model.RetryAttempts = 3
	cfg.Linter.TimeoutSeconds = 60
	cfg.Audit.Enabled = true
	return cfg
}

// Load reads the config file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// loadFile reads path over the defaults without environment overrides.
func loadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, v any) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func encode(path string, v any) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// applyEnv overrides fields from the environment (highest precedence).
func applyEnv(cfg *Config) {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&cfg.DataDir, "TDD_DATA_DIR")
	setString(&cfg.LogLevel, "TDD_GUARD_LOG_LEVEL")
	setString(&cfg.Storage.Driver, "TDD_STORAGE_DRIVER")
	setString(&cfg.Model.Type, "MODEL_TYPE")
	setString(&cfg.Model.Model, "MODEL_VERSION")
	setString(&cfg.Model.ClaudeBinary, "CLAUDE_BINARY_PATH")
	setString(&cfg.Linter.Type, "LINTER_TYPE")

	switch cfg.Model.Type {
	case ModelAnthropicAPI:
		setString(&cfg.Model.APIKey, "TDD_GUARD_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	case ModelOpenAI:
		setString(&cfg.Model.APIKey, "OPENAI_API_KEY")
		setString(&cfg.Model.BaseURL, "OPENAI_BASE_URL")
	}

	if v := os.Getenv("USE_SYSTEM_CLAUDE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Model.UseSystemClaude = b
		}
	}
}

// ResolveDataDir returns DataDir, joined to projectDir when relative.
func (c *Config) ResolveDataDir(projectDir string) string {
	if filepath.IsAbs(c.DataDir) {
		return c.DataDir
	}
	return filepath.Join(projectDir, c.DataDir)
}

// Save writes cfg to path atomically, creating the parent directory. The
// encoding follows the file extension.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := encode(path, cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
