// Package lint runs linters over modified files, keeps the last lint
// snapshot, and decides when lint issues should interrupt the agent.
package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Issue struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity" validate:"required,oneof=error warning"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule,omitempty"`
}

// Result is the output of one linter run.
type Result struct {
	Timestamp    string   `json:"timestamp"`
	Files        []string `json:"files" validate:"required"`
	Issues       []Issue  `json:"issues" validate:"required,dive"`
	ErrorCount   int      `json:"errorCount" validate:"gte=0"`
	WarningCount int      `json:"warningCount" validate:"gte=0"`
}

// Data is the persisted lint snapshot: the last result plus the sticky
// notification flag.
type Data struct {
	Result
	HasNotifiedAboutLintIssues bool `json:"hasNotifiedAboutLintIssues"`
}

// HasIssues reports whether any error or warning was found.
func (r Result) HasIssues() bool {
	return r.ErrorCount+r.WarningCount > 0
}

// Total is errorCount + warningCount.
func (r Result) Total() int {
	return r.ErrorCount + r.WarningCount
}

// Linter runs a linter over a set of files.
type Linter interface {
	Name() string
	Lint(ctx context.Context, files []string) (Result, error)
}

// NewResult builds a Result and derives its counts from issues.
func NewResult(files []string, issues []Issue) Result {
	if files == nil {
		files = []string{}
	}
	if issues == nil {
		issues = []Issue{}
	}
	r := Result{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Files:     files,
		Issues:    issues,
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		}
	}
	return r
}

// Merge combines a fresh result with the previous snapshot. The
// notification flag survives while issues remain and resets as soon as
// the result is clean.
func Merge(r Result, prev *Data) Data {
	notified := false
	if r.HasIssues() && prev != nil {
		notified = prev.HasNotifiedAboutLintIssues
	}
	return Data{Result: r, HasNotifiedAboutLintIssues: notified}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseData decodes and validates a stored lint snapshot.
func ParseData(raw []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode lint data: %w", err)
	}
	if err := validate.Struct(&d); err != nil {
		return nil, fmt.Errorf("invalid lint data: %w", err)
	}
	return &d, nil
}

// Encode renders the snapshot for storage.
func (d Data) Encode() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode lint data: %w", err)
	}
	return string(data), nil
}
