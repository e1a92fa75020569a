package lint

import (
	"context"
	"encoding/json"
)

// ESLint runs `npx eslint <files> --format json`.
type ESLint struct {
	Runner     Runner
	ConfigPath string
}

type eslintMessage struct {
	Line     *int   `json:"line"`
	Column   *int   `json:"column"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	RuleID   string `json:"ruleId"`
}

type eslintFile struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

func (e *ESLint) Name() string { return "eslint" }

func (e *ESLint) args(files []string) []string {
	args := append([]string{"eslint"}, files...)
	args = append(args, "--format", "json")
	if e.ConfigPath != "" {
		args = append(args, "-c", e.ConfigPath)
	}
	return args
}

func (e *ESLint) Lint(ctx context.Context, files []string) (Result, error) {
	out, err := e.Runner.Run(ctx, "npx", e.args(files)...)
	if err != nil && !exitedWithFindings(err) {
		return Result{}, err
	}
	return NewResult(files, parseESLint(out)), nil
}

// parseESLint maps ESLint's JSON report to issues. Severity 2 is an error,
// anything else a warning. Unparseable output yields no issues.
func parseESLint(out []byte) []Issue {
	var files []eslintFile
	if len(out) == 0 || json.Unmarshal(out, &files) != nil {
		return nil
	}

	var issues []Issue
	for _, f := range files {
		for _, m := range f.Messages {
			issue := Issue{
				File:     f.FilePath,
				Severity: SeverityWarning,
				Message:  m.Message,
				Rule:     m.RuleID,
			}
			if m.Severity == 2 {
				issue.Severity = SeverityError
			}
			if m.Line != nil {
				issue.Line = *m.Line
			}
			if m.Column != nil {
				issue.Column = *m.Column
			}
			issues = append(issues, issue)
		}
	}
	return issues
}
