package context

import (
	"strings"
	"testing"

	"github.com/user/tddguard/internal/hook"
)

func TestRenderEditDiff(t *testing.T) {
	out, err := RenderEditDiff(&hook.EditOperation{Input: hook.Edit{
		FilePath:  "/p/src/a.ts",
		OldString: "one\ntwo",
		NewString: "one\nthree\nfour",
	}})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"--- a/p/src/a.ts",
		"+++ b/p/src/a.ts",
		"@@ -1,2 +1,3 @@ edit 1",
		"-two\n",
		"+four\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected diff to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderMultiEditDiffHasHunkPerEdit(t *testing.T) {
	out, err := RenderEditDiff(&hook.MultiEditOperation{Input: hook.MultiEdit{
		FilePath: "a.go",
		Edits: []hook.EditEntry{
			{OldString: "a", NewString: "b"},
			{OldString: "", NewString: "c"},
		},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, "@@ -"); n != 2 {
		t.Errorf("expected 2 hunks, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "@@ -0,0 +1,1 @@ edit 2") {
		t.Errorf("expected pure insertion hunk, got:\n%s", out)
	}
}

func TestRenderDiffSkipsOtherOperations(t *testing.T) {
	out, err := RenderEditDiff(&hook.WriteOperation{Input: hook.Write{FilePath: "a.ts", Content: "x"}})
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("expected empty diff, got %q", out)
	}
}
