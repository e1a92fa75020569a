// internal/state/decision_test.go
package state

import (
	"context"
	"testing"

	"github.com/user/tddguard/internal/types"
)

func TestDecisionLog(t *testing.T) {
	dir := t.TempDir()
	log := NewDecisionLog(dir)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d := &types.Decision{
			Event: "PreToolUse",
			Tool:  "Edit",
			Stage: "validated",
		}
		if err := log.Append(ctx, d); err != nil {
			t.Fatal(err)
		}
		if d.Seq != int64(i+1) {
			t.Errorf("expected seq %d, got %d", i+1, d.Seq)
		}
		if d.ID == "" {
			t.Error("expected ID to be assigned")
		}
	}

	tail, err := log.Tail(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 3 {
		t.Fatalf("expected 3 decisions, got %d", len(tail))
	}
	if tail[0].Seq != 3 {
		t.Errorf("expected first tail seq 3, got %d", tail[0].Seq)
	}

	count, err := log.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Errorf("expected count 5, got %d", count)
	}
}

func TestDecisionLogEmpty(t *testing.T) {
	log := NewDecisionLog(t.TempDir())

	tail, err := log.Tail(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if tail != nil {
		t.Errorf("expected nil tail, got %v", tail)
	}
}
