// Package hook parses agent hook payloads into typed events and tool
// operations, and defines the verdict written back to the agent.
package hook

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventName is the closed set of hook events the guard reacts to.
type EventName string

const (
	SessionStart     EventName = "SessionStart"
	UserPromptSubmit EventName = "UserPromptSubmit"
	PreToolUse       EventName = "PreToolUse"
	PostToolUse      EventName = "PostToolUse"
)

// Known reports whether n is one of the recognized events.
func (n EventName) Known() bool {
	switch n {
	case SessionStart, UserPromptSubmit, PreToolUse, PostToolUse:
		return true
	}
	return false
}

// Event is the normalized form of one hook payload, independent of which
// envelope carried it.
type Event struct {
	Name           EventName
	SessionID      string
	TranscriptPath string
	Cwd            string
	Prompt         string
	Source         string
	ToolName       string
	ToolInput      json.RawMessage
}

// wireEvent covers both accepted envelopes: the flat payload and the
// logged form that nests the same fields under "data".
type wireEvent struct {
	HookEventName  string          `json:"hook_event_name"`
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	Cwd            string          `json:"cwd"`
	Prompt         string          `json:"prompt"`
	Source         string          `json:"source"`
	Matcher        string          `json:"matcher"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`

	Timestamp string     `json:"timestamp"`
	Tool      string     `json:"tool"`
	Data      *wireEvent `json:"data"`
}

// ErrMalformed is returned when the payload is not a JSON object.
var ErrMalformed = errors.New("malformed hook payload")

// ParseEvent decodes a raw payload. It fails only when the input is not a
// JSON object; unknown event names are kept and left to the caller.
func ParseEvent(raw []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	src := &w
	if w.Data != nil {
		src = w.Data
	}

	ev := Event{
		Name:           EventName(src.HookEventName),
		SessionID:      src.SessionID,
		TranscriptPath: src.TranscriptPath,
		Cwd:            src.Cwd,
		Prompt:         src.Prompt,
		Source:         src.Source,
		ToolName:       src.ToolName,
		ToolInput:      src.ToolInput,
	}
	if ev.Source == "" {
		ev.Source = src.Matcher
	}
	if ev.Cwd == "" && src != &w {
		ev.Cwd = w.Cwd
	}
	if ev.ToolName == "" && src != &w {
		ev.ToolName = w.Tool
	}
	return ev, nil
}

// TargetPath returns tool_input.file_path when present.
func (e Event) TargetPath() string {
	if len(e.ToolInput) == 0 {
		return ""
	}
	var in struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(e.ToolInput, &in); err != nil {
		return ""
	}
	return in.FilePath
}

// FilePaths returns tool_input.file_path plus any edits[].file_path,
// de-duplicated in first-seen order.
func (e Event) FilePaths() []string {
	if len(e.ToolInput) == 0 {
		return nil
	}
	var in struct {
		FilePath string `json:"file_path"`
		Edits    []struct {
			FilePath string `json:"file_path"`
		} `json:"edits"`
	}
	if err := json.Unmarshal(e.ToolInput, &in); err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	add(in.FilePath)
	for _, edit := range in.Edits {
		add(edit.FilePath)
	}
	return paths
}
