package testresult

import (
	"errors"
	"testing"
)

func TestParseValid(t *testing.T) {
	raw := `{"testModules":[{"moduleId":"a.test.ts","tests":[{"name":"t","fullName":"s > t","state":"passed"}]}]}`

	r, err := Parse([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.TestModules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(r.TestModules))
	}
	if r.TestModules[0].ModuleID != "a.test.ts" {
		t.Errorf("expected module a.test.ts, got %q", r.TestModules[0].ModuleID)
	}
	if !IsSuitePassing(r) {
		t.Error("expected passing suite")
	}
}

func TestParseDoubleEncoded(t *testing.T) {
	raw := `"{\"testModules\":[{\"moduleId\":\"m\",\"tests\":[{\"name\":\"t\",\"fullName\":\"t\",\"state\":\"failed\",\"errors\":[{\"message\":\"boom\"}]}]}],\"reason\":\"failed\"}"`

	r, err := Parse([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if r.Reason != "failed" {
		t.Errorf("expected reason failed, got %q", r.Reason)
	}
	if got := r.TestModules[0].Tests[0].Errors[0].Message; got != "boom" {
		t.Errorf("expected error message boom, got %q", got)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"not json", `{ invalid`, ErrInvalidJSON},
		{"missing testModules", `{"modules":[]}`, ErrNoResults},
		{"missing tests", `{"testModules":[{"moduleId":"m"}]}`, ErrInvalidFormat},
		{"invalid state", `{"testModules":[{"moduleId":"m","tests":[{"name":"t","fullName":"t","state":"pending"}]}]}`, ErrInvalidFormat},
		{"invalid reason", `{"testModules":[],"reason":"crashed"}`, ErrInvalidFormat},
		{"array payload", `[1,2]`, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIsSuitePassing(t *testing.T) {
	passed := Test{Name: "a", FullName: "a", State: StatePassed}
	skipped := Test{Name: "b", FullName: "b", State: StateSkipped}
	failed := Test{Name: "c", FullName: "c", State: StateFailed}

	tests := []struct {
		name   string
		result *Result
		want   bool
	}{
		{"nil result", nil, false},
		{"no modules", &Result{TestModules: []Module{}}, false},
		{"modules without tests", &Result{TestModules: []Module{{ModuleID: "m", Tests: []Test{}}, {ModuleID: "n", Tests: []Test{}}}}, false},
		{"all passing", &Result{TestModules: []Module{{ModuleID: "m", Tests: []Test{passed}}}}, true},
		{"passing and skipped", &Result{TestModules: []Module{{ModuleID: "m", Tests: []Test{passed, skipped}}}}, true},
		{"only skipped", &Result{TestModules: []Module{{ModuleID: "m", Tests: []Test{skipped}}}}, true},
		{"one failure", &Result{TestModules: []Module{{ModuleID: "m", Tests: []Test{passed}}, {ModuleID: "n", Tests: []Test{failed}}}}, false},
		{"empty module beside passing", &Result{TestModules: []Module{{ModuleID: "m", Tests: []Test{}}, {ModuleID: "n", Tests: []Test{passed}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSuitePassing(tt.result); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTestPredicates(t *testing.T) {
	if !IsFailingTest(Test{State: StateFailed}) || IsFailingTest(Test{State: StateSkipped}) {
		t.Error("expected only failed tests to be failing")
	}
	if !IsPassingTest(Test{State: StatePassed}) || IsPassingTest(Test{State: StateFailed}) {
		t.Error("expected only passed tests to be passing")
	}
}

func TestCounts(t *testing.T) {
	r := &Result{TestModules: []Module{{ModuleID: "m", Tests: []Test{
		{State: StatePassed}, {State: StatePassed}, {State: StateFailed}, {State: StateSkipped},
	}}}}
	p, f, s := r.Counts()
	if p != 2 || f != 1 || s != 1 {
		t.Errorf("expected 2/1/1, got %d/%d/%d", p, f, s)
	}
}
