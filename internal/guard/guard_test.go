package guard

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/user/tddguard/internal/hook"
	"github.com/user/tddguard/internal/state"
	"github.com/user/tddguard/internal/types"
)

func assertConfigSlot(t *testing.T, store types.Store, want string) {
	t.Helper()
	raw, ok, err := store.Get(context.Background(), types.SlotConfig)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected config slot to be stored")
	}
	var got, expected map[string]any
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("config slot is not JSON: %v", err)
	}
	json.Unmarshal([]byte(want), &expected)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected config slot %s, got %s", want, raw)
	}
}

func TestGuardDefaultsToEnabled(t *testing.T) {
	g := New(state.NewMemoryStore(), nil)
	if !g.IsEnabled(context.Background()) {
		t.Error("expected guard enabled by default")
	}
}

func TestGuardToggle(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	g := New(store, nil)

	if err := g.Disable(ctx); err != nil {
		t.Fatal(err)
	}
	if g.IsEnabled(ctx) {
		t.Error("expected guard disabled")
	}
	assertConfigSlot(t, store, `{"guardEnabled":false}`)

	if err := g.Enable(ctx); err != nil {
		t.Fatal(err)
	}
	if !g.IsEnabled(ctx) {
		t.Error("expected guard enabled")
	}
}

func TestGuardStateIsReadFromStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	if err := New(state.NewFileStore(dir), nil).Disable(ctx); err != nil {
		t.Fatal(err)
	}
	if New(state.NewFileStore(dir), nil).IsEnabled(ctx) {
		t.Error("expected a fresh guard to see the persisted value")
	}
}

func TestGuardTogglePreservesPatterns(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	if err := store.Save(ctx, types.SlotConfig, `{"ignorePatterns":["*.gen.ts"]}`); err != nil {
		t.Fatal(err)
	}

	g := New(store, nil)
	if err := g.Disable(ctx); err != nil {
		t.Fatal(err)
	}

	assertConfigSlot(t, store, `{"guardEnabled":false,"ignorePatterns":["*.gen.ts"]}`)
	if got := g.IgnorePatterns(ctx); !reflect.DeepEqual(got, []string{"*.gen.ts"}) {
		t.Errorf("expected [*.gen.ts], got %v", got)
	}
}

func TestGuardInvalidSlotReadsAsDefault(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	if err := store.Save(ctx, types.SlotConfig, `not json`); err != nil {
		t.Fatal(err)
	}

	g := New(store, nil)
	if !g.IsEnabled(ctx) {
		t.Error("expected invalid slot to read as enabled")
	}
	if err := g.Disable(ctx); err != nil {
		t.Fatal(err)
	}
	if g.IsEnabled(ctx) {
		t.Error("expected guard disabled after overwriting invalid slot")
	}
}

func TestIgnorePatternPrecedence(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()

	if got := New(store, nil).IgnorePatterns(ctx); !reflect.DeepEqual(got, DefaultIgnorePatterns) {
		t.Errorf("expected default patterns, got %v", got)
	}

	g := New(store, []string{"vendor/**"})
	if got := g.IgnorePatterns(ctx); !reflect.DeepEqual(got, []string{"vendor/**"}) {
		t.Errorf("expected configured patterns, got %v", got)
	}

	if err := g.SetIgnorePatterns(ctx, []string{"*.snap"}); err != nil {
		t.Fatal(err)
	}
	if got := g.IgnorePatterns(ctx); !reflect.DeepEqual(got, []string{"*.snap"}) {
		t.Errorf("expected slot patterns to win, got %v", got)
	}
	if !g.ShouldIgnore(ctx, "src/__snapshots__/a.snap") {
		t.Error("expected snapshot to be ignored")
	}
	if g.ShouldIgnore(ctx, "vendor/x.go") {
		t.Error("expected vendor file to be checked once slot patterns apply")
	}
}

func TestShouldIgnoreDefaults(t *testing.T) {
	ctx := context.Background()
	g := New(state.NewMemoryStore(), nil)

	for path, want := range map[string]bool{
		"/project/README.md":  true,
		"config/app.yaml":     true,
		"/project/src/app.ts": false,
		"":                    false,
	} {
		if got := g.ShouldIgnore(ctx, path); got != want {
			t.Errorf("ShouldIgnore(%q): expected %v, got %v", path, want, got)
		}
	}
}

func TestParseCommand(t *testing.T) {
	cases := map[string]Command{
		"tdd-guard on":       CommandOn,
		"  TDD-Guard OFF \n": CommandOff,
		"Tdd-guard On":       CommandOn,
	}
	for prompt, want := range cases {
		got, ok := ParseCommand(prompt)
		if !ok || got != want {
			t.Errorf("ParseCommand(%q): expected %v, got %v (ok=%v)", prompt, want, got, ok)
		}
	}

	for _, prompt := range []string{"", "tdd-guard", "please run tdd-guard off", "tdd-guard  off"} {
		if _, ok := ParseCommand(prompt); ok {
			t.Errorf("ParseCommand(%q): expected no command", prompt)
		}
	}
}

func TestInterpret(t *testing.T) {
	ctx := context.Background()
	g := New(state.NewMemoryStore(), nil)

	v, handled, err := g.Interpret(ctx, "tdd-guard off")
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Fatal("expected command to be handled")
	}
	if v.Decision != hook.DecisionNone {
		t.Errorf("expected no decision, got %q", v.Decision)
	}
	if v.Continue == nil || *v.Continue {
		t.Error("expected continue=false")
	}
	if v.StopReason != "TDD Guard disabled" {
		t.Errorf("expected 'TDD Guard disabled', got %q", v.StopReason)
	}
	if g.IsEnabled(ctx) {
		t.Error("expected guard disabled")
	}

	v, handled, err = g.Interpret(ctx, "TDD-GUARD ON")
	if err != nil {
		t.Fatal(err)
	}
	if !handled || v.StopReason != "TDD Guard enabled" {
		t.Errorf("expected 'TDD Guard enabled', got %q (handled=%v)", v.StopReason, handled)
	}
	if !g.IsEnabled(ctx) {
		t.Error("expected guard enabled")
	}

	_, handled, err = g.Interpret(ctx, "write a test for the parser")
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Error("expected ordinary prompt to pass through")
	}
}
