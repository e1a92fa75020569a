package lint

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewResultCounts(t *testing.T) {
	r := NewResult([]string{"a.ts"}, []Issue{
		{File: "a.ts", Severity: SeverityError},
		{File: "a.ts", Severity: SeverityWarning},
		{File: "a.ts", Severity: SeverityError},
	})
	if r.ErrorCount != 2 || r.WarningCount != 1 {
		t.Errorf("expected 2 errors and 1 warning, got %d and %d", r.ErrorCount, r.WarningCount)
	}
	if !r.HasIssues() {
		t.Error("expected issues")
	}
	if r.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}

	empty := NewResult(nil, nil)
	if empty.Files == nil || empty.Issues == nil {
		t.Error("expected non-nil files and issues")
	}
	if empty.HasIssues() {
		t.Error("expected no issues")
	}
}

func TestMergeStickyFlag(t *testing.T) {
	dirty := NewResult([]string{"a.ts"}, []Issue{{File: "a.ts", Severity: SeverityWarning}})
	clean := NewResult([]string{"a.ts"}, nil)
	notified := &Data{Result: dirty, HasNotifiedAboutLintIssues: true}
	unnotified := &Data{Result: dirty}

	if Merge(dirty, nil).HasNotifiedAboutLintIssues {
		t.Error("expected flag unset without a previous snapshot")
	}
	if !Merge(dirty, notified).HasNotifiedAboutLintIssues {
		t.Error("expected flag preserved while issues remain")
	}
	if Merge(dirty, unnotified).HasNotifiedAboutLintIssues {
		t.Error("expected unset flag to stay unset")
	}
	if Merge(clean, notified).HasNotifiedAboutLintIssues {
		t.Error("expected flag reset once clean")
	}
}

func TestParseData(t *testing.T) {
	raw := `{"timestamp":"t","files":["a.ts"],"issues":[{"file":"a.ts","line":1,"column":2,"severity":"error","message":"m","rule":"r"}],"errorCount":1,"warningCount":0,"hasNotifiedAboutLintIssues":true}`

	d, err := ParseData([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !d.HasNotifiedAboutLintIssues {
		t.Error("expected notified flag")
	}
	if d.Issues[0].Rule != "r" {
		t.Errorf("expected rule r, got %q", d.Issues[0].Rule)
	}

	encoded, err := d.Encode()
	if err != nil {
		t.Fatal(err)
	}
	var want, got map[string]any
	json.Unmarshal([]byte(raw), &want)
	if err := json.Unmarshal([]byte(encoded), &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("expected %s, got %s", raw, encoded)
	}

	for name, bad := range map[string]string{
		"unknown severity": `{"files":["a"],"issues":[{"file":"a","severity":"info"}]}`,
		"missing files":    `{"issues":[]}`,
		"not json":         `nope`,
	} {
		if _, err := ParseData([]byte(bad)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
