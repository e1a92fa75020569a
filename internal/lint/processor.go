package lint

import (
	"fmt"
	"strings"
)

// FileIssues holds the formatted issues of one file.
type FileIssues struct {
	File   string
	Issues []string
}

// Processed is the presentation form of a lint snapshot.
type Processed struct {
	HasIssues    bool
	Summary      string
	IssuesByFile []FileIssues
	TotalIssues  int
	ErrorCount   int
	WarningCount int
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// groupByFile groups issues by file in first-seen order, keeping the
// linter's order within each file.
func groupByFile(issues []Issue, format func(Issue) string) []FileIssues {
	index := make(map[string]int)
	var groups []FileIssues
	for _, issue := range issues {
		i, ok := index[issue.File]
		if !ok {
			i = len(groups)
			index[issue.File] = i
			groups = append(groups, FileIssues{File: issue.File})
		}
		groups[i].Issues = append(groups[i].Issues, format(issue))
	}
	return groups
}

const noLintData = "No lint data available"

// Process converts a snapshot into its presentation form. A nil snapshot
// means no lint data has been recorded.
func Process(d *Data) Processed {
	if d == nil {
		return Processed{Summary: noLintData}
	}
	if !d.HasIssues() {
		return Processed{Summary: "No lint issues found"}
	}

	total := d.Total()
	summary := fmt.Sprintf("%d lint %s found (%d %s, %d %s)",
		total, plural(total, "issue", "issues"),
		d.ErrorCount, plural(d.ErrorCount, "error", "errors"),
		d.WarningCount, plural(d.WarningCount, "warning", "warnings"),
	)

	return Processed{
		HasIssues: true,
		Summary:   summary,
		IssuesByFile: groupByFile(d.Issues, func(issue Issue) string {
			rule := ""
			if issue.Rule != "" {
				rule = " (" + issue.Rule + ")"
			}
			return fmt.Sprintf("  Line %d:%d - %s: %s%s", issue.Line, issue.Column, issue.Severity, issue.Message, rule)
		}),
		TotalIssues:  total,
		ErrorCount:   d.ErrorCount,
		WarningCount: d.WarningCount,
	}
}

// String renders the processed snapshot for the validation prompt.
func (p Processed) String() string {
	if !p.HasIssues {
		if p.Summary == "" {
			return noLintData
		}
		return p.Summary
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Code Quality Status: %s\n", p.Summary)
	if len(p.IssuesByFile) > 0 {
		b.WriteString("\nLint Issues by File:\n")
		for _, f := range p.IssuesByFile {
			fmt.Fprintf(&b, "\n%s:\n%s\n", f.File, strings.Join(f.Issues, "\n"))
		}
	}
	return strings.TrimSpace(b.String())
}

// FormatIssues renders the eslint-stylish listing used in block messages:
// each file on its own line followed by its issues, then a summary line.
func FormatIssues(r Result) string {
	var b strings.Builder
	groups := groupByFile(r.Issues, func(issue Issue) string {
		rule := ""
		if issue.Rule != "" {
			rule = "  " + issue.Rule
		}
		return fmt.Sprintf("  %d:%d  %s  %s%s", issue.Line, issue.Column, issue.Severity, issue.Message, rule)
	})
	for _, g := range groups {
		fmt.Fprintf(&b, "\n%s\n%s", g.File, strings.Join(g.Issues, "\n"))
	}
	fmt.Fprintf(&b, "\n\n✖ %d problems (%d errors, %d warnings)", r.Total(), r.ErrorCount, r.WarningCount)
	return b.String()
}
