package testresult

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// compilationErrorTest names the synthetic test recorded for packages that
// fail to build, so a broken build never reads as an empty green run.
const compilationErrorTest = "CompilationError"

// GoTestAdapter converts the event stream of `go test -json`.
type GoTestAdapter struct{}

func (GoTestAdapter) Name() string { return "go" }

// goTestEvent is one line of `go test -json` output.
type goTestEvent struct {
	Action      string  `json:"Action"`
	Package     string  `json:"Package"`
	Test        string  `json:"Test"`
	Elapsed     float64 `json:"Elapsed"`
	Output      string  `json:"Output"`
	ImportPath  string  `json:"ImportPath"`
	FailedBuild string  `json:"FailedBuild"`
}

type goPackage struct {
	tests   []string
	states  map[string]State
	outputs map[string]*strings.Builder
	pkgOut  strings.Builder
	// failedBuild is the import path whose build-output explains a
	// compilation failure, e.g. "example.com/p [example.com/p.test]".
	failedBuild string
}

type goCollector struct {
	order     []string
	packages  map[string]*goPackage
	buildOuts map[string]*strings.Builder
}

func (c *goCollector) pkg(name string) *goPackage {
	p, ok := c.packages[name]
	if !ok {
		p = &goPackage{states: make(map[string]State), outputs: make(map[string]*strings.Builder)}
		c.packages[name] = p
		c.order = append(c.order, name)
	}
	return p
}

func (p *goPackage) record(test string, state State) {
	if _, seen := p.states[test]; !seen {
		p.tests = append(p.tests, test)
	}
	p.states[test] = state
}

// Convert reads the whole stream. Lines that are not JSON (for example
// plain compiler output interleaved by the go tool) are skipped.
func (GoTestAdapter) Convert(r io.Reader) (*Result, error) {
	c := &goCollector{
		packages:  make(map[string]*goPackage),
		buildOuts: make(map[string]*strings.Builder),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var ev goTestEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		c.handle(&ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read go test output: %w", err)
	}

	return c.result(), nil
}

func (c *goCollector) handle(ev *goTestEvent) {
	if ev.ImportPath != "" && ev.Action == "build-output" {
		b, ok := c.buildOuts[ev.ImportPath]
		if !ok {
			b = &strings.Builder{}
			c.buildOuts[ev.ImportPath] = b
		}
		b.WriteString(ev.Output)
		return
	}

	if ev.Action == "fail" && ev.FailedBuild != "" {
		p := c.pkg(ev.Package)
		p.failedBuild = ev.FailedBuild
		p.record(compilationErrorTest, StateFailed)
		return
	}

	if ev.Package == "" {
		return
	}
	p := c.pkg(ev.Package)

	if ev.Test == "" {
		switch ev.Action {
		case "output":
			p.pkgOut.WriteString(ev.Output)
		case "fail":
			if len(p.tests) == 0 {
				p.record(compilationErrorTest, StateFailed)
			}
		}
		return
	}

	switch ev.Action {
	case "output":
		if strings.HasPrefix(ev.Output, "=== RUN") || strings.HasPrefix(ev.Output, "--- FAIL") {
			return
		}
		b, ok := p.outputs[ev.Test]
		if !ok {
			b = &strings.Builder{}
			p.outputs[ev.Test] = b
		}
		b.WriteString(strings.TrimLeft(ev.Output, " \t"))
	case "pass":
		p.record(ev.Test, StatePassed)
	case "fail":
		p.record(ev.Test, StateFailed)
	case "skip":
		p.record(ev.Test, StateSkipped)
	}
}

// isParent reports whether any other recorded test is a subtest of name.
func isParent(name string, tests []string) bool {
	prefix := name + "/"
	for _, t := range tests {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func (c *goCollector) result() *Result {
	res := &Result{TestModules: []Module{}, Reason: "passed"}

	for _, name := range c.order {
		p := c.packages[name]
		mod := Module{ModuleID: name, Tests: []Test{}}

		for _, test := range p.tests {
			if isParent(test, p.tests) {
				continue
			}
			t := Test{
				Name:     test,
				FullName: name + "/" + test,
				State:    p.states[test],
			}
			if t.State == StateFailed {
				res.Reason = "failed"
				if msg := c.failureMessage(name, test, p); msg != "" {
					t.Errors = []TestError{{Message: msg}}
				}
			}
			mod.Tests = append(mod.Tests, t)
		}
		res.TestModules = append(res.TestModules, mod)
	}
	return res
}

func (c *goCollector) failureMessage(pkgName, test string, p *goPackage) string {
	if test == compilationErrorTest {
		for _, key := range []string{p.failedBuild, pkgName} {
			if b, ok := c.buildOuts[key]; ok && b.Len() > 0 {
				return strings.TrimSpace(b.String())
			}
		}
		return strings.TrimSpace(p.pkgOut.String())
	}
	if b, ok := p.outputs[test]; ok {
		return strings.TrimSpace(b.String())
	}
	return ""
}
