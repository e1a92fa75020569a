package lint

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/tddguard/internal/hook"
	"github.com/user/tddguard/internal/state"
	"github.com/user/tddguard/internal/testresult"
	"github.com/user/tddguard/internal/types"
)

const (
	postHookIntro = "Lint issues detected:"
	preHookIntro  = "Lint issues detected while all tests are passing:"
	fixRequest    = "\n\nPlease fix these issues before proceeding."
)

var errUnchanged = errors.New("lint data unchanged")

// Gate interrupts the agent at most once per set of lint issues.
type Gate struct {
	store  types.Store
	linter Linter
}

// NewGate creates a gate. A nil linter disables the post-hook path.
func NewGate(store types.Store, linter Linter) *Gate {
	return &Gate{store: store, linter: linter}
}

// BlockReason renders the message shown when lint issues block the agent.
func BlockReason(intro string, r Result) string {
	return intro + FormatIssues(r) + fixRequest
}

// decodeStored treats an absent or unreadable snapshot as no data.
func decodeStored(current string, ok bool) *Data {
	if !ok || current == "" {
		return nil
	}
	d, err := ParseData([]byte(current))
	if err != nil {
		return nil
	}
	return d
}

// AfterToolUse lints the files touched by a completed modification and
// stores the result. It blocks only when the agent was already notified
// about issues before this run and issues remain.
func (g *Gate) AfterToolUse(ctx context.Context, files []string) (hook.Verdict, error) {
	if g.linter == nil || len(files) == 0 {
		return hook.NoOp(), nil
	}

	result, err := g.linter.Lint(ctx, files)
	if err != nil {
		return hook.NoOp(), fmt.Errorf("run %s: %w", g.linter.Name(), err)
	}

	var (
		previouslyNotified bool
		merged             Data
	)
	err = state.Update(ctx, g.store, types.SlotLint, func(current string, ok bool) (string, error) {
		prev := decodeStored(current, ok)
		previouslyNotified = prev != nil && prev.HasNotifiedAboutLintIssues
		merged = Merge(result, prev)
		return merged.Encode()
	})
	if err != nil {
		return hook.NoOp(), fmt.Errorf("store lint data: %w", err)
	}

	if previouslyNotified && merged.HasIssues() {
		return hook.Block(BlockReason(postHookIntro, merged.Result)), nil
	}
	return hook.NoOp(), nil
}

// BeforeToolUse fires a single block when the suite is green and the
// stored snapshot has issues the agent has not been told about yet. It
// reports whether the block fired.
func (g *Gate) BeforeToolUse(ctx context.Context) (hook.Verdict, bool, error) {
	if !g.suitePassing(ctx) {
		return hook.NoOp(), false, nil
	}

	var notified Data
	err := state.Update(ctx, g.store, types.SlotLint, func(current string, ok bool) (string, error) {
		d := decodeStored(current, ok)
		if d == nil || !d.HasIssues() || d.HasNotifiedAboutLintIssues {
			return "", errUnchanged
		}
		d.HasNotifiedAboutLintIssues = true
		notified = *d
		return d.Encode()
	})
	if errors.Is(err, errUnchanged) {
		return hook.NoOp(), false, nil
	}
	if err != nil {
		return hook.NoOp(), false, fmt.Errorf("update lint data: %w", err)
	}

	return hook.Block(BlockReason(preHookIntro, notified.Result)), true, nil
}

// suitePassing reads the stored test result. Missing or invalid results
// count as not passing.
func (g *Gate) suitePassing(ctx context.Context) bool {
	raw, ok, err := g.store.Get(ctx, types.SlotTest)
	if err != nil || !ok {
		return false
	}
	r, err := testresult.Parse([]byte(raw))
	if err != nil {
		return false
	}
	return testresult.IsSuitePassing(r)
}
