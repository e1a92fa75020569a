package testresult

import (
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestGoTestAdapterPassAndFail(t *testing.T) {
	stream := strings.Join([]string{
		`{"Action":"run","Package":"example.com/calc","Test":"TestAdd"}`,
		`{"Action":"output","Package":"example.com/calc","Test":"TestAdd","Output":"=== RUN   TestAdd\n"}`,
		`{"Action":"pass","Package":"example.com/calc","Test":"TestAdd","Elapsed":0}`,
		`{"Action":"run","Package":"example.com/calc","Test":"TestSub"}`,
		`{"Action":"output","Package":"example.com/calc","Test":"TestSub","Output":"    calc_test.go:12: expected 1, got 2\n"}`,
		`{"Action":"output","Package":"example.com/calc","Test":"TestSub","Output":"--- FAIL: TestSub (0.00s)\n"}`,
		`{"Action":"fail","Package":"example.com/calc","Test":"TestSub","Elapsed":0}`,
		`{"Action":"skip","Package":"example.com/calc","Test":"TestMul","Elapsed":0}`,
		`not json at all`,
		`{"Action":"fail","Package":"example.com/calc","Elapsed":0.1}`,
	}, "\n")

	r, err := GoTestAdapter{}.Convert(strings.NewReader(stream))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.TestModules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(r.TestModules))
	}
	mod := r.TestModules[0]
	if mod.ModuleID != "example.com/calc" {
		t.Errorf("expected module example.com/calc, got %q", mod.ModuleID)
	}
	if len(mod.Tests) != 3 {
		t.Fatalf("expected 3 tests, got %d", len(mod.Tests))
	}
	for i, want := range []State{StatePassed, StateFailed, StateSkipped} {
		if mod.Tests[i].State != want {
			t.Errorf("test %d: expected %s, got %s", i, want, mod.Tests[i].State)
		}
	}
	if mod.Tests[0].FullName != "example.com/calc/TestAdd" {
		t.Errorf("expected full name example.com/calc/TestAdd, got %q", mod.Tests[0].FullName)
	}
	if len(mod.Tests[1].Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(mod.Tests[1].Errors))
	}
	if got := mod.Tests[1].Errors[0].Message; got != "calc_test.go:12: expected 1, got 2" {
		t.Errorf("unexpected failure message %q", got)
	}
	if r.Reason != "failed" || IsSuitePassing(r) {
		t.Errorf("expected failed run, got reason %q", r.Reason)
	}
}

func TestGoTestAdapterDropsParentTests(t *testing.T) {
	stream := strings.Join([]string{
		`{"Action":"pass","Package":"p","Test":"TestTable/case_one"}`,
		`{"Action":"pass","Package":"p","Test":"TestTable/case_two"}`,
		`{"Action":"pass","Package":"p","Test":"TestTable"}`,
		`{"Action":"pass","Package":"p"}`,
	}, "\n")

	r, err := GoTestAdapter{}.Convert(strings.NewReader(stream))
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, tt := range r.TestModules[0].Tests {
		names = append(names, tt.Name)
	}
	if want := []string{"TestTable/case_one", "TestTable/case_two"}; !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}
	if r.Reason != "passed" || !IsSuitePassing(r) {
		t.Errorf("expected passing run, got reason %q", r.Reason)
	}
}

func TestGoTestAdapterBuildFailure(t *testing.T) {
	stream := strings.Join([]string{
		`{"ImportPath":"example.com/broken [example.com/broken.test]","Action":"build-output","Output":"./broken.go:3:1: syntax error\n"}`,
		`{"ImportPath":"example.com/broken [example.com/broken.test]","Action":"build-fail"}`,
		`{"Action":"start","Package":"example.com/broken"}`,
		`{"Action":"output","Package":"example.com/broken","Output":"FAIL\texample.com/broken [build failed]\n"}`,
		`{"Action":"fail","Package":"example.com/broken","Elapsed":0,"FailedBuild":"example.com/broken [example.com/broken.test]"}`,
	}, "\n")

	r, err := GoTestAdapter{}.Convert(strings.NewReader(stream))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.TestModules) != 1 || len(r.TestModules[0].Tests) != 1 {
		t.Fatalf("expected one synthetic test, got %+v", r.TestModules)
	}
	tt := r.TestModules[0].Tests[0]
	if tt.Name != "CompilationError" || tt.State != StateFailed {
		t.Errorf("expected failed CompilationError, got %s %s", tt.Name, tt.State)
	}
	if len(tt.Errors) != 1 || !strings.Contains(tt.Errors[0].Message, "syntax error") {
		t.Errorf("expected syntax error message, got %+v", tt.Errors)
	}
}

func TestAdapterRegistry(t *testing.T) {
	a, err := AdapterFor("go")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "go" {
		t.Errorf("expected adapter go, got %q", a.Name())
	}
	if !slices.Contains(AdapterNames(), "go") {
		t.Errorf("expected go in %v", AdapterNames())
	}

	if _, err := AdapterFor("cobol"); err == nil {
		t.Error("expected error for unknown adapter")
	}
}
