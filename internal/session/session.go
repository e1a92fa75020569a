// Package session handles session lifecycle events.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/tddguard/internal/types"
)

// Handler resets per-session state.
type Handler struct {
	store types.Store
}

func NewHandler(store types.Store) *Handler {
	return &Handler{store: store}
}

// Start clears the transient slots (test, todo, modifications, lint).
// Durable slots are left untouched.
func (h *Handler) Start(ctx context.Context, source string) error {
	if err := h.store.ClearTransient(ctx); err != nil {
		return fmt.Errorf("clear transient slots: %w", err)
	}
	slog.Debug("session started", "source", source)
	return nil
}
