package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/user/tddguard/internal/config"
	"github.com/user/tddguard/internal/dispatch"
	"github.com/user/tddguard/internal/guard"
	"github.com/user/tddguard/internal/lint"
	"github.com/user/tddguard/internal/state"
	"github.com/user/tddguard/internal/types"
	"github.com/user/tddguard/internal/validation"
)

// app wires the configured store and collaborators for one invocation.
type app struct {
	cfg     *config.Config
	dir     string
	dataDir string
	store   types.Store
	closer  io.Closer
	guard   *guard.Guard
	audit   *state.DecisionLog
}

func openApp(cfg *config.Config, dir string) (*app, error) {
	dataDir := cfg.ResolveDataDir(dir)
	store, closer, err := state.Open(cfg.Storage.Driver, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	return &app{
		cfg:     cfg,
		dir:     dir,
		dataDir: dataDir,
		store:   store,
		closer:  closer,
		guard:   guard.New(store, cfg.Guard.IgnorePatterns),
		audit:   state.NewDecisionLog(dataDir),
	}, nil
}

func (a *app) Close() {
	if err := a.closer.Close(); err != nil {
		slog.Warn("failed to close store", "error", err)
	}
}

// linter returns the configured linter, or nil when linting is off.
func (a *app) linter() (lint.Linter, error) {
	return lint.NewRegistry().Build(a.cfg.Linter.Type, lint.Options{
		Dir:        a.dir,
		ConfigPath: a.cfg.Linter.ConfigPath,
		Timeout:    time.Duration(a.cfg.Linter.TimeoutSeconds) * time.Second,
	})
}

// dispatcher builds the hook pipeline. Linter and model client errors
// are logged and leave that stage disabled rather than failing the hook.
func (a *app) dispatcher() *dispatch.Dispatcher {
	l, err := a.linter()
	if err != nil {
		slog.Warn("linting disabled", "error", err)
	}

	deps := dispatch.Deps{
		Store: a.store,
		Guard: a.guard,
		Gate:  lint.NewGate(a.store, l),
	}
	if v, err := validation.FromConfig(a.cfg, a.dir); err != nil {
		slog.Warn("model client unavailable", "error", err)
	} else {
		deps.Validator = v
	}
	if a.cfg.Audit.Enabled {
		deps.Audit = a.audit
	}
	return dispatch.New(deps)
}
