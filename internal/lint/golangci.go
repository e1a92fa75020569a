package lint

import (
	"bytes"
	"context"
	"encoding/json"
)

// GolangciLint runs `golangci-lint run --output.json.path=stdout`.
type GolangciLint struct {
	Runner     Runner
	ConfigPath string
}

type golangciIssue struct {
	FromLinter string `json:"FromLinter"`
	Text       string `json:"Text"`
	Severity   string `json:"Severity"`
	Pos        struct {
		Filename string `json:"Filename"`
		Line     int    `json:"Line"`
		Column   int    `json:"Column"`
	} `json:"Pos"`
}

func (g *GolangciLint) Name() string { return "golangci-lint" }

func (g *GolangciLint) args(files []string) []string {
	args := []string{"run", "--output.json.path=stdout"}
	if g.ConfigPath != "" {
		args = append(args, "--config", g.ConfigPath)
	} else {
		args = append(args, "--no-config")
	}
	return append(args, files...)
}

func (g *GolangciLint) Lint(ctx context.Context, files []string) (Result, error) {
	out, err := g.Runner.Run(ctx, "golangci-lint", g.args(files)...)
	if err != nil && !exitedWithFindings(err) {
		return Result{}, err
	}
	return NewResult(files, parseGolangci(out)), nil
}

// parseGolangci reads the JSON report from the first stdout line; the
// lines after it are a human summary. golangci-lint has no per-issue
// severity, so every issue is an error.
func parseGolangci(out []byte) []Issue {
	line, _, _ := bytes.Cut(out, []byte("\n"))
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}

	var report struct {
		Issues []golangciIssue `json:"Issues"`
	}
	if err := json.Unmarshal(line, &report); err != nil {
		return nil
	}

	issues := make([]Issue, 0, len(report.Issues))
	for _, gi := range report.Issues {
		issues = append(issues, Issue{
			File:     gi.Pos.Filename,
			Line:     gi.Pos.Line,
			Column:   gi.Pos.Column,
			Severity: SeverityError,
			Message:  gi.Text,
			Rule:     gi.FromLinter,
		})
	}
	return issues
}
