package dispatch

import (
	"github.com/user/tddguard/internal/hook"
)

// Stage names the pipeline step that produced an outcome.
type Stage string

const (
	StageParseError    Stage = "parse_error"
	StageSessionStart  Stage = "session_start"
	StageIgnored       Stage = "ignored"
	StageUserCommand   Stage = "user_command"
	StagePassthrough   Stage = "passthrough"
	StageGuardDisabled Stage = "guard_disabled"
	StageSchemaInvalid Stage = "schema_invalid"
	StagePostToolLint  Stage = "post_tool_lint"
	StageTodoWrite     Stage = "todo_write"
	StageNonCode       Stage = "non_code"
	StageLintNotify    Stage = "lint_notify"
	StageValidated     Stage = "validated"
)

// Outcome is the result of handling one hook event. Verdict is always set;
// Reason and Err explain stages that failed open.
type Outcome struct {
	Stage   Stage
	Verdict hook.Verdict
	Reason  string
	Err     error
}

func done(stage Stage, v hook.Verdict) Outcome {
	return Outcome{Stage: stage, Verdict: v}
}

func failOpen(stage Stage, reason string, err error) Outcome {
	return Outcome{Stage: stage, Verdict: hook.NoOp(), Reason: reason, Err: err}
}
