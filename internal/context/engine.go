// internal/context/engine.go
package context

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/tddguard/internal/hook"
	"github.com/user/tddguard/internal/testresult"
)

const truncatedMarker = "\n... (truncated)"

// PromptData holds the rendered sections of a validation prompt.
type PromptData struct {
	Rules    string
	Analysis string
	Changes  string
	Diff     string
	Test     string
	Todo     string
	Lint     string
}

// Engine renders token-budgeted validation prompts.
type Engine struct {
	tmpl      *template.Template
	tokenizer *tiktoken.Tiktoken
	maxTokens int
}

// New creates an engine. model selects the tokenizer; maxTokens is the
// prompt budget, and zero disables budgeting.
func New(model string, maxTokens int) (*Engine, error) {
	tmpl, err := template.New("prompt").Parse(DefaultPrompt)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	e := &Engine{tmpl: tmpl, maxTokens: maxTokens}
	if maxTokens <= 0 {
		return e, nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fallback to cl100k_base for non-OpenAI models
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	e.tokenizer = enc
	return e, nil
}

func (e *Engine) countTokens(text string) int {
	return len(e.tokenizer.Encode(text, nil, nil))
}

// BuildPrompt renders the prompt for c. When the result exceeds the
// budget, the test output and then the lint listing are cut from the end.
func (e *Engine) BuildPrompt(c Context) (string, error) {
	data := Sections(c)
	prompt, err := e.render(data)
	if err != nil || e.tokenizer == nil {
		return prompt, err
	}

	for _, section := range []*string{&data.Test, &data.Lint} {
		over := e.countTokens(prompt) - e.maxTokens
		if over <= 0 {
			break
		}
		*section = e.truncate(*section, over)
		if prompt, err = e.render(data); err != nil {
			return "", err
		}
	}
	if n := e.countTokens(prompt); n > e.maxTokens {
		slog.Warn("prompt exceeds token budget", "tokens", n, "budget", e.maxTokens)
	}
	return prompt, nil
}

func (e *Engine) render(data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// truncate drops at least drop tokens from the end of text.
func (e *Engine) truncate(text string, drop int) string {
	toks := e.tokenizer.Encode(text, nil, nil)
	keep := len(toks) - drop - e.countTokens(truncatedMarker)
	if keep <= 0 {
		return strings.TrimPrefix(truncatedMarker, "\n")
	}
	return e.tokenizer.Decode(toks[:keep]) + truncatedMarker
}

// Sections converts an assembled context into prompt sections.
func Sections(c Context) PromptData {
	data := PromptData{
		Rules: DefaultRules,
		Test:  noTestOutput,
		Lint:  c.Lint.String(),
	}
	if strings.TrimSpace(c.Instructions) != "" {
		data.Rules = strings.TrimSpace(c.Instructions)
	}
	if strings.TrimSpace(c.Test) != "" {
		data.Test = testresult.FormatRaw([]byte(c.Test))
	}
	if c.Todo != "" {
		data.Todo = formatTodos(c.Todo)
	}

	op, err := hook.UnmarshalOperation([]byte(c.Modifications))
	if err != nil {
		data.Changes = section("Modifications", c.Modifications)
		return data
	}
	data.Analysis, data.Changes = describe(op)
	if d, err := RenderEditDiff(op); err != nil {
		slog.Debug("diff rendering failed", "error", err)
	} else {
		data.Diff = d
	}
	return data
}

func describe(op hook.Operation) (analysis, changes string) {
	switch o := op.(type) {
	case *hook.EditOperation:
		return editAnalysis, strings.Join([]string{
			editDescription,
			section("File Path", o.Input.FilePath),
			section("Old Content", o.Input.OldString),
			section("New Content", o.Input.NewString),
		}, "\n")
	case *hook.MultiEditOperation:
		var b strings.Builder
		b.WriteString(editDescription + "\n")
		b.WriteString(section("File Path", o.Input.FilePath))
		b.WriteString("\n### Edits\n")
		for i, e := range o.Input.Edits {
			fmt.Fprintf(&b, "\n#### Edit %d:\n", i+1)
			fmt.Fprintf(&b, "**Old Content:**\n```\n%s\n```\n", e.OldString)
			fmt.Fprintf(&b, "**New Content:**\n```\n%s\n```\n", e.NewString)
		}
		return multiEditAnalysis, b.String()
	case *hook.WriteOperation:
		return writeAnalysis, strings.Join([]string{
			writeDescription,
			section("File Path", o.Input.FilePath),
			section("New File Content", o.Input.Content),
		}, "\n")
	}
	return "", ""
}

func section(title, content string) string {
	return fmt.Sprintf("\n### %s\n```\n%s\n```\n", title, content)
}

// formatTodos renders the todo slot as a numbered list. Content that is
// not a stored TodoWrite operation is passed through.
func formatTodos(raw string) string {
	op, err := hook.UnmarshalOperation([]byte(raw))
	if err != nil {
		return raw
	}
	tw, ok := op.(*hook.TodoWriteOperation)
	if !ok {
		return raw
	}

	var b strings.Builder
	for i, t := range tw.Input.Todos {
		fmt.Fprintf(&b, "\n%d. [%s] %s (%s)", i+1, t.Status, t.Content, t.Priority)
	}
	return b.String()
}
