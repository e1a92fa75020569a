package guard

import (
	"context"
	"strings"

	"github.com/user/tddguard/internal/hook"
)

// Command is a guard toggle typed into a user prompt.
type Command string

const (
	CommandOn  Command = "tdd-guard on"
	CommandOff Command = "tdd-guard off"
)

// ParseCommand recognizes a toggle command. The prompt is trimmed and
// compared case-insensitively; anything else is not a command.
func ParseCommand(prompt string) (Command, bool) {
	switch Command(strings.ToLower(strings.TrimSpace(prompt))) {
	case CommandOn:
		return CommandOn, true
	case CommandOff:
		return CommandOff, true
	}
	return "", false
}

// Interpret applies a toggle command found in prompt. It reports false
// when the prompt is not a command, in which case the event falls
// through to the rest of the pipeline.
func (g *Guard) Interpret(ctx context.Context, prompt string) (hook.Verdict, bool, error) {
	cmd, ok := ParseCommand(prompt)
	if !ok {
		return hook.Verdict{}, false, nil
	}

	if cmd == CommandOn {
		if err := g.Enable(ctx); err != nil {
			return hook.NoOp(), true, err
		}
		return hook.Stop("TDD Guard enabled"), true, nil
	}
	if err := g.Disable(ctx); err != nil {
		return hook.NoOp(), true, err
	}
	return hook.Stop("TDD Guard disabled"), true, nil
}
