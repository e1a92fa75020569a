// Package dispatch runs one hook event through the guard pipeline and
// produces exactly one verdict.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tddcontext "github.com/user/tddguard/internal/context"
	"github.com/user/tddguard/internal/guard"
	"github.com/user/tddguard/internal/hook"
	"github.com/user/tddguard/internal/lint"
	"github.com/user/tddguard/internal/session"
	"github.com/user/tddguard/internal/types"
)

// nonCodeExtensions never reach the validator.
var nonCodeExtensions = map[string]bool{
	".md": true, ".txt": true, ".log": true, ".json": true, ".yml": true,
	".yaml": true, ".xml": true, ".html": true, ".css": true, ".rst": true,
}

// IsNonCode reports whether path has a documentation or data extension.
func IsNonCode(path string) bool {
	return nonCodeExtensions[strings.ToLower(filepath.Ext(path))]
}

// Validator decides whether a proposed change follows TDD.
type Validator interface {
	Validate(ctx context.Context, c tddcontext.Context) (hook.Verdict, error)
}

// Deps are the collaborators of a Dispatcher. Validator may be nil, in
// which case validation fails open. Audit may be nil.
type Deps struct {
	Store     types.Store
	Guard     *guard.Guard
	Gate      *lint.Gate
	Validator Validator
	Audit     types.DecisionLog
}

// Dispatcher routes hook events. It holds no per-event state.
type Dispatcher struct {
	store     types.Store
	guard     *guard.Guard
	session   *session.Handler
	gate      *lint.Gate
	validator Validator
	audit     types.DecisionLog
}

func New(d Deps) *Dispatcher {
	g := d.Guard
	if g == nil {
		g = guard.New(d.Store, nil)
	}
	gate := d.Gate
	if gate == nil {
		gate = lint.NewGate(d.Store, nil)
	}
	return &Dispatcher{
		store:     d.Store,
		guard:     g,
		session:   session.NewHandler(d.Store),
		gate:      gate,
		validator: d.Validator,
		audit:     d.Audit,
	}
}

// Handle processes one raw hook payload. It never fails: every error is
// folded into a non-blocking verdict on the returned Outcome.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) Outcome {
	ev, err := hook.ParseEvent(raw)
	if err != nil {
		out := failOpen(StageParseError, "Failed to parse hook data", err)
		d.record(ctx, hook.Event{}, out)
		return out
	}

	out := d.route(ctx, ev)
	if out.Err != nil {
		slog.Warn("hook stage failed open", "stage", out.Stage, "error", out.Err)
	}
	d.record(ctx, ev, out)
	return out
}

func (d *Dispatcher) route(ctx context.Context, ev hook.Event) Outcome {
	if ev.Name == hook.SessionStart {
		if err := d.session.Start(ctx, ev.Source); err != nil {
			return failOpen(StageSessionStart, "session reset failed", err)
		}
		return done(StageSessionStart, hook.NoOp())
	}

	if d.guard.ShouldIgnore(ctx, ev.TargetPath()) {
		return done(StageIgnored, hook.NoOp())
	}

	if ev.Name == hook.UserPromptSubmit {
		v, handled, err := d.guard.Interpret(ctx, ev.Prompt)
		if err != nil {
			return failOpen(StageUserCommand, "guard toggle failed", err)
		}
		if handled {
			return done(StageUserCommand, v)
		}
	}

	if !d.guard.IsEnabled(ctx) {
		return done(StageGuardDisabled, hook.NoOp())
	}

	if ev.Name == hook.UserPromptSubmit {
		return done(StagePassthrough, hook.NoOp())
	}
	if ev.Name != hook.PreToolUse && ev.Name != hook.PostToolUse {
		return failOpen(StageSchemaInvalid, fmt.Sprintf("unsupported event %q", ev.Name), nil)
	}

	op, err := hook.ParseOperation(ev)
	if err != nil {
		return failOpen(StageSchemaInvalid, err.Error(), nil)
	}

	if err := d.recordOperation(ctx, op); err != nil {
		slog.Warn("failed to record operation", "tool", op.Tool(), "error", err)
	}

	if ev.Name == hook.PostToolUse {
		v, err := d.gate.AfterToolUse(ctx, ev.FilePaths())
		if err != nil {
			return failOpen(StagePostToolLint, "lint run failed", err)
		}
		return done(StagePostToolLint, v)
	}

	if op.Tool() == hook.ToolTodoWrite {
		return done(StageTodoWrite, hook.NoOp())
	}

	if IsNonCode(ev.TargetPath()) {
		return done(StageNonCode, hook.NoOp())
	}

	v, fired, err := d.gate.BeforeToolUse(ctx)
	if err != nil {
		slog.Warn("lint notification check failed", "error", err)
	}
	if fired {
		return done(StageLintNotify, v)
	}

	return d.validate(ctx)
}

// recordOperation stores the operation in its transient slot.
func (d *Dispatcher) recordOperation(ctx context.Context, op hook.Operation) error {
	slot := types.SlotModifications
	if op.Tool() == hook.ToolTodoWrite {
		slot = types.SlotTodo
	}
	data, err := hook.MarshalOperation(op)
	if err != nil {
		return err
	}
	return d.store.Save(ctx, slot, string(data))
}

func (d *Dispatcher) validate(ctx context.Context) Outcome {
	if d.validator == nil {
		return delegateFailure(errNoValidator)
	}

	c := tddcontext.Assemble(ctx, d.store)
	v, err := d.validator.Validate(ctx, c)
	if err != nil {
		return delegateFailure(err)
	}
	return done(StageValidated, v)
}

var errNoValidator = errors.New("no model client configured")

// delegateFailure lets the operation through and surfaces the error as
// the verdict reason.
func delegateFailure(err error) Outcome {
	return Outcome{
		Stage:   StageValidated,
		Verdict: hook.Verdict{Reason: "Error during validation: " + err.Error()},
		Reason:  "validation delegate error: " + err.Error(),
		Err:     err,
	}
}

// record appends the outcome to the audit log. Failures are logged only.
func (d *Dispatcher) record(ctx context.Context, ev hook.Event, out Outcome) {
	if d.audit == nil {
		return
	}
	dec := &types.Decision{
		SessionID: types.SessionID(ev.SessionID),
		Event:     string(ev.Name),
		Tool:      ev.ToolName,
		Stage:     string(out.Stage),
		Decision:  string(out.Verdict.Decision),
		Reason:    out.Verdict.Reason,
		At:        time.Now().UTC(),
	}
	if out.Verdict.StopReason != "" {
		dec.Reason = out.Verdict.StopReason
	}
	switch {
	case out.Err != nil:
		dec.Detail = out.Err.Error()
	case out.Reason != "":
		dec.Detail = out.Reason
	}
	if err := d.audit.Append(ctx, dec); err != nil {
		slog.Warn("failed to append decision", "error", err)
	}
}
