// Package guard holds the persisted on/off switch and ignore patterns
// that decide whether an operation is validated at all.
package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/user/tddguard/internal/state"
	"github.com/user/tddguard/internal/types"
)

// DefaultIgnorePatterns apply when neither the config slot nor the config
// file names any patterns.
var DefaultIgnorePatterns = []string{
	"*.md", "*.txt", "*.log", "*.json", "*.yml", "*.yaml", "*.xml", "*.html", "*.css", "*.rst",
}

// Config is the content of the config slot. Absent fields keep their
// defaults: the guard is enabled and the fallback patterns apply.
type Config struct {
	GuardEnabled   *bool    `json:"guardEnabled,omitempty"`
	IgnorePatterns []string `json:"ignorePatterns,omitempty" validate:"omitempty,dive,required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseConfig decodes and validates the config slot.
func ParseConfig(raw string) (Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode guard config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid guard config: %w", err)
	}
	return cfg, nil
}

// Guard reads and writes the config slot through a store. It keeps no
// state of its own between calls.
type Guard struct {
	store    types.Store
	patterns []string
}

// New creates a guard. patterns are used when the config slot has no
// ignorePatterns; nil means DefaultIgnorePatterns.
func New(store types.Store, patterns []string) *Guard {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns
	}
	return &Guard{store: store, patterns: patterns}
}

// load returns the stored config. A missing, unreadable or invalid slot
// reads as the zero Config.
func (g *Guard) load(ctx context.Context) Config {
	raw, ok, err := g.store.Get(ctx, types.SlotConfig)
	if err != nil {
		slog.Warn("read guard config failed", "error", err)
		return Config{}
	}
	if !ok {
		return Config{}
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		slog.Warn("ignoring guard config", "error", err)
		return Config{}
	}
	return cfg
}

// IsEnabled reports whether validation is on. Enabled is the default.
func (g *Guard) IsEnabled(ctx context.Context) bool {
	cfg := g.load(ctx)
	return cfg.GuardEnabled == nil || *cfg.GuardEnabled
}

func (g *Guard) Enable(ctx context.Context) error  { return g.setEnabled(ctx, true) }
func (g *Guard) Disable(ctx context.Context) error { return g.setEnabled(ctx, false) }

// setEnabled rewrites guardEnabled and keeps the other fields.
func (g *Guard) setEnabled(ctx context.Context, enabled bool) error {
	return g.update(ctx, func(cfg *Config) { cfg.GuardEnabled = &enabled })
}

// SetIgnorePatterns stores patterns in the config slot. An empty list
// removes the override.
func (g *Guard) SetIgnorePatterns(ctx context.Context, patterns []string) error {
	return g.update(ctx, func(cfg *Config) { cfg.IgnorePatterns = patterns })
}

func (g *Guard) update(ctx context.Context, mutate func(*Config)) error {
	err := state.Update(ctx, g.store, types.SlotConfig, func(current string, ok bool) (string, error) {
		var cfg Config
		if ok {
			// an invalid slot is overwritten rather than blocking the toggle
			if parsed, err := ParseConfig(current); err == nil {
				cfg = parsed
			}
		}
		mutate(&cfg)
		data, err := json.Marshal(cfg)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		return fmt.Errorf("write guard config: %w", err)
	}
	return nil
}

// IgnorePatterns returns the effective patterns: the config slot's, then
// the fallback given to New.
func (g *Guard) IgnorePatterns(ctx context.Context) []string {
	if cfg := g.load(ctx); len(cfg.IgnorePatterns) > 0 {
		return cfg.IgnorePatterns
	}
	return g.patterns
}

// ShouldIgnore reports whether path matches any effective ignore pattern.
// An empty path is never ignored.
func (g *Guard) ShouldIgnore(ctx context.Context, path string) bool {
	if path == "" {
		return false
	}
	for _, p := range g.IgnorePatterns(ctx) {
		if Match(p, path) {
			return true
		}
	}
	return false
}
