package hook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ToolName is the closed set of agent tools the guard inspects.
type ToolName string

const (
	ToolEdit      ToolName = "Edit"
	ToolWrite     ToolName = "Write"
	ToolMultiEdit ToolName = "MultiEdit"
	ToolTodoWrite ToolName = "TodoWrite"
)

// ErrUnknownTool is returned for tool names outside the closed set.
var ErrUnknownTool = errors.New("unknown tool")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Operation is one validated tool call. The concrete type is one of
// *EditOperation, *WriteOperation, *MultiEditOperation or
// *TodoWriteOperation.
type Operation interface {
	Tool() ToolName
	Header() Header
	input() any
}

// FileModification is implemented by the operations that change a file.
// TodoWrite is deliberately not one.
type FileModification interface {
	Operation
	Path() string
}

// Header carries the event fields shared by every operation.
type Header struct {
	SessionID      string    `json:"session_id"`
	TranscriptPath string    `json:"transcript_path"`
	HookEventName  EventName `json:"hook_event_name"`
}

type Edit struct {
	FilePath   string `json:"file_path"`
	OldString  string `json:"old_string"`
	NewString  string `json:"new_string"`
	ReplaceAll bool   `json:"replace_all,omitempty"`
}

type EditEntry struct {
	FilePath   string `json:"file_path,omitempty"`
	OldString  string `json:"old_string"`
	NewString  string `json:"new_string"`
	ReplaceAll bool   `json:"replace_all,omitempty"`
}

type MultiEdit struct {
	FilePath string      `json:"file_path"`
	Edits    []EditEntry `json:"edits"`
}

type Write struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

type Todo struct {
	Content  string `json:"content"`
	Status   string `json:"status"`
	Priority string `json:"priority,omitempty"`
	ID       string `json:"id,omitempty"`
}

type TodoWrite struct {
	Todos []Todo `json:"todos"`
}

type EditOperation struct {
	Hdr   Header
	Input Edit
}

type WriteOperation struct {
	Hdr   Header
	Input Write
}

type MultiEditOperation struct {
	Hdr   Header
	Input MultiEdit
}

type TodoWriteOperation struct {
	Hdr   Header
	Input TodoWrite
}

func (o *EditOperation) Tool() ToolName      { return ToolEdit }
func (o *WriteOperation) Tool() ToolName     { return ToolWrite }
func (o *MultiEditOperation) Tool() ToolName { return ToolMultiEdit }
func (o *TodoWriteOperation) Tool() ToolName { return ToolTodoWrite }

func (o *EditOperation) Header() Header      { return o.Hdr }
func (o *WriteOperation) Header() Header     { return o.Hdr }
func (o *MultiEditOperation) Header() Header { return o.Hdr }
func (o *TodoWriteOperation) Header() Header { return o.Hdr }

func (o *EditOperation) input() any      { return o.Input }
func (o *WriteOperation) input() any     { return o.Input }
func (o *MultiEditOperation) input() any { return o.Input }
func (o *TodoWriteOperation) input() any { return o.Input }

func (o *EditOperation) Path() string      { return o.Input.FilePath }
func (o *WriteOperation) Path() string     { return o.Input.FilePath }
func (o *MultiEditOperation) Path() string { return o.Input.FilePath }

// Wire shapes. Pointers distinguish a missing string from an empty one.
type editWire struct {
	FilePath   string  `json:"file_path" validate:"required"`
	OldString  *string `json:"old_string" validate:"required"`
	NewString  *string `json:"new_string" validate:"required"`
	ReplaceAll bool    `json:"replace_all"`
}

type editEntryWire struct {
	FilePath   string  `json:"file_path"`
	OldString  *string `json:"old_string" validate:"required"`
	NewString  *string `json:"new_string" validate:"required"`
	ReplaceAll bool    `json:"replace_all"`
}

type multiEditWire struct {
	FilePath string          `json:"file_path" validate:"required"`
	Edits    []editEntryWire `json:"edits" validate:"required,min=1,dive"`
}

type writeWire struct {
	FilePath string  `json:"file_path" validate:"required"`
	Content  *string `json:"content" validate:"required"`
}

type todoWire struct {
	Content  string `json:"content" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=pending in_progress completed"`
	Priority string `json:"priority" validate:"omitempty,oneof=high medium low"`
	ID       string `json:"id"`
}

type todoWriteWire struct {
	Todos []todoWire `json:"todos" validate:"required,min=1,dive"`
}

func decodeInput(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errors.New("tool_input is missing")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode tool_input: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("tool_input failed validation: %w", err)
	}
	return nil
}

// ParseOperation validates the event's tool call against the schema of
// its tool. It is the only place untyped tool input is inspected.
func ParseOperation(ev Event) (Operation, error) {
	hdr := Header{
		SessionID:      ev.SessionID,
		TranscriptPath: ev.TranscriptPath,
		HookEventName:  ev.Name,
	}

	switch ToolName(ev.ToolName) {
	case ToolEdit:
		var w editWire
		if err := decodeInput(ev.ToolInput, &w); err != nil {
			return nil, err
		}
		return &EditOperation{Hdr: hdr, Input: Edit{
			FilePath:   w.FilePath,
			OldString:  *w.OldString,
			NewString:  *w.NewString,
			ReplaceAll: w.ReplaceAll,
		}}, nil

	case ToolWrite:
		var w writeWire
		if err := decodeInput(ev.ToolInput, &w); err != nil {
			return nil, err
		}
		return &WriteOperation{Hdr: hdr, Input: Write{FilePath: w.FilePath, Content: *w.Content}}, nil

	case ToolMultiEdit:
		var w multiEditWire
		if err := decodeInput(ev.ToolInput, &w); err != nil {
			return nil, err
		}
		edits := make([]EditEntry, len(w.Edits))
		for i, e := range w.Edits {
			edits[i] = EditEntry{
				FilePath:   e.FilePath,
				OldString:  *e.OldString,
				NewString:  *e.NewString,
				ReplaceAll: e.ReplaceAll,
			}
		}
		return &MultiEditOperation{Hdr: hdr, Input: MultiEdit{FilePath: w.FilePath, Edits: edits}}, nil

	case ToolTodoWrite:
		var w todoWriteWire
		if err := decodeInput(ev.ToolInput, &w); err != nil {
			return nil, err
		}
		todos := make([]Todo, len(w.Todos))
		for i, td := range w.Todos {
			todos[i] = Todo(td)
		}
		return &TodoWriteOperation{Hdr: hdr, Input: TodoWrite{Todos: todos}}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, ev.ToolName)
	}
}

// MarshalOperation renders an operation as the indented JSON document
// stored in the modifications and todo slots.
func MarshalOperation(op Operation) ([]byte, error) {
	hdr := op.Header()
	doc := struct {
		Header
		ToolName  ToolName `json:"tool_name"`
		ToolInput any      `json:"tool_input"`
	}{
		Header:    hdr,
		ToolName:  op.Tool(),
		ToolInput: op.input(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s operation: %w", op.Tool(), err)
	}
	return data, nil
}

// UnmarshalOperation parses a document written by MarshalOperation.
func UnmarshalOperation(data []byte) (Operation, error) {
	ev, err := ParseEvent(data)
	if err != nil {
		return nil, err
	}
	return ParseOperation(ev)
}
