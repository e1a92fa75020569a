package context

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/user/tddguard/internal/hook"
)

// RenderEditDiff renders an Edit or MultiEdit as a unified diff with one
// hunk per replacement. Other operations have no diff and yield "".
func RenderEditDiff(op hook.Operation) (string, error) {
	var (
		path  string
		edits []hook.EditEntry
	)
	switch o := op.(type) {
	case *hook.EditOperation:
		path = o.Input.FilePath
		edits = []hook.EditEntry{{OldString: o.Input.OldString, NewString: o.Input.NewString}}
	case *hook.MultiEditOperation:
		path = o.Input.FilePath
		edits = o.Input.Edits
	default:
		return "", nil
	}

	fd := &diff.FileDiff{OrigName: "a/" + strings.TrimPrefix(path, "/"), NewName: "b/" + strings.TrimPrefix(path, "/")}
	for i, e := range edits {
		fd.Hunks = append(fd.Hunks, editHunk(i+1, e.OldString, e.NewString))
	}

	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("render diff for %s: %w", path, err)
	}
	return string(out), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// editHunk builds a hunk replacing before with after. Positions in the file
// are unknown, so both sides start at line 1.
func editHunk(n int, before, after string) *diff.Hunk {
	oldLines, newLines := splitLines(before), splitLines(after)

	var body strings.Builder
	for _, l := range oldLines {
		body.WriteString("-" + l + "\n")
	}
	for _, l := range newLines {
		body.WriteString("+" + l + "\n")
	}

	h := &diff.Hunk{
		OrigLines: int32(len(oldLines)),
		NewLines:  int32(len(newLines)),
		Section:   fmt.Sprintf("edit %d", n),
		Body:      []byte(body.String()),
	}
	if len(oldLines) > 0 {
		h.OrigStartLine = 1
	}
	if len(newLines) > 0 {
		h.NewStartLine = 1
	}
	return h
}
