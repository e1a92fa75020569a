// internal/context/assembler.go
package context

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/user/tddguard/internal/lint"
	"github.com/user/tddguard/internal/types"
)

// Context is the bundle handed to the validation delegate. It is built
// fresh for each validated operation and never persisted.
type Context struct {
	Modifications string
	Test          string
	Todo          string
	Lint          lint.Processed
	// Instructions replace the built-in TDD rules when non-empty.
	Instructions string
}

// Assemble reads the transient slots and the instructions slot from
// store. Slots that are missing or cannot be read are treated as empty.
func Assemble(ctx context.Context, store types.Store) Context {
	c := Context{
		Modifications: formatModifications(read(ctx, store, types.SlotModifications)),
		Test:          read(ctx, store, types.SlotTest),
		Todo:          read(ctx, store, types.SlotTodo),
		Instructions:  read(ctx, store, types.SlotInstructions),
	}

	var data *lint.Data
	if raw := read(ctx, store, types.SlotLint); raw != "" {
		d, err := lint.ParseData([]byte(raw))
		if err != nil {
			slog.Warn("ignoring stored lint data", "error", err)
		} else {
			data = d
		}
	}
	c.Lint = lint.Process(data)
	return c
}

func read(ctx context.Context, store types.Store, slot types.Slot) string {
	content, ok, err := store.Get(ctx, slot)
	if err != nil {
		slog.Warn("read slot failed", "slot", slot, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return content
}

// formatModifications re-indents JSON with two spaces. Anything else is
// returned unchanged.
func formatModifications(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}
