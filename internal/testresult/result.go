// Package testresult defines the canonical test-run schema shared by all
// reporters and the predicates the guard uses to decide whether the suite
// is green.
package testresult

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// State is the closed set of test outcomes. Framework-specific states are
// mapped onto these by the reporter adapters.
type State string

const (
	StatePassed  State = "passed"
	StateFailed  State = "failed"
	StateSkipped State = "skipped"
)

type TestError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

type Test struct {
	Name     string      `json:"name"`
	FullName string      `json:"fullName"`
	State    State       `json:"state" validate:"required,oneof=passed failed skipped"`
	Errors   []TestError `json:"errors,omitempty" validate:"omitempty,dive"`
}

type Module struct {
	ModuleID string `json:"moduleId"`
	Tests    []Test `json:"tests" validate:"required,dive"`
}

type UnhandledError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Stack   string `json:"stack,omitempty"`
}

// Result is one complete test run.
type Result struct {
	TestModules     []Module         `json:"testModules" validate:"required,dive"`
	UnhandledErrors []UnhandledError `json:"unhandledErrors,omitempty"`
	Reason          string           `json:"reason,omitempty" validate:"omitempty,oneof=passed failed interrupted"`
}

var (
	// ErrInvalidJSON means the payload could not be decoded at all.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrNoResults means the payload is JSON but has no testModules key.
	ErrNoResults = errors.New("no test results")
	// ErrInvalidFormat means the payload violates the schema.
	ErrInvalidFormat = errors.New("invalid test result format")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and strictly validates a test result. Double-encoded
// payloads (a JSON string holding the document) are unwrapped first.
func Parse(raw []byte) (*Result, error) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if s, ok := probe.(string); ok {
		raw = []byte(s)
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	}

	obj, ok := probe.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidFormat)
	}
	if _, ok := obj["testModules"]; !ok {
		return nil, ErrNoResults
	}
	if err := requireTests(obj["testModules"]); err != nil {
		return nil, err
	}

	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &r, nil
}

// requireTests rejects modules without a tests key. An empty tests array
// is valid; a missing one is not.
func requireTests(modules any) error {
	list, ok := modules.([]any)
	if !ok {
		return fmt.Errorf("%w: testModules must be an array", ErrInvalidFormat)
	}
	for i, m := range list {
		mod, ok := m.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: testModules[%d] must be an object", ErrInvalidFormat, i)
		}
		if _, ok := mod["tests"]; !ok {
			return fmt.Errorf("%w: testModules[%d] has no tests", ErrInvalidFormat, i)
		}
	}
	return nil
}

// IsSuitePassing reports whether the run is green. An empty run is never
// green: no modules, or modules with no tests at all, count as failing.
func IsSuitePassing(r *Result) bool {
	if r == nil || len(r.TestModules) == 0 {
		return false
	}
	total := 0
	for _, m := range r.TestModules {
		for _, t := range m.Tests {
			total++
			if IsFailingTest(t) {
				return false
			}
		}
	}
	return total > 0
}

func IsFailingTest(t Test) bool { return t.State == StateFailed }

func IsPassingTest(t Test) bool { return t.State == StatePassed }

// Counts tallies tests by state.
func (r *Result) Counts() (passed, failed, skipped int) {
	for _, m := range r.TestModules {
		for _, t := range m.Tests {
			switch t.State {
			case StatePassed:
				passed++
			case StateFailed:
				failed++
			case StateSkipped:
				skipped++
			}
		}
	}
	return passed, failed, skipped
}
