package testresult

import (
	"errors"
	"fmt"
	"strings"
)

const emptyModuleBanner = "Test run failed - This is likely when an imported module can not be found and as such no tests were collected, resulting in inaccurate test run results.\n\n"

// FormatRaw parses a stored payload and renders it with Format. Payloads
// that cannot be parsed render as a short explanation instead.
func FormatRaw(raw []byte) string {
	r, err := Parse(raw)
	switch {
	case errors.Is(err, ErrInvalidJSON):
		return "Invalid JSON format."
	case errors.Is(err, ErrNoResults):
		return "No test results found."
	case err != nil:
		return "Invalid test result format."
	}
	return Format(r)
}

// Format renders a vitest-style report: one line per module, failing
// tests with their error messages, unhandled errors, then a summary.
func Format(r *Result) string {
	if len(r.TestModules) == 0 {
		return "No test results found."
	}

	var b strings.Builder
	b.WriteString(formatReason(r))
	b.WriteString(formatModules(r))
	b.WriteString(formatUnhandled(r))
	b.WriteString("\n")
	b.WriteString(formatSummary(r))
	return b.String()
}

func formatReason(r *Result) string {
	if r.Reason != "failed" {
		return ""
	}
	for _, m := range r.TestModules {
		if len(m.Tests) == 0 {
			return emptyModuleBanner
		}
	}
	return ""
}

func failingTests(tests []Test) int {
	n := 0
	for _, t := range tests {
		if IsFailingTest(t) {
			n++
		}
	}
	return n
}

func formatModules(r *Result) string {
	var b strings.Builder
	for _, m := range r.TestModules {
		count := len(m.Tests)
		failed := failingTests(m.Tests)

		if failed == 0 {
			if count == 0 && r.Reason == "failed" {
				fmt.Fprintf(&b, " ❯ %s (%d tests | 0 failed) 0ms\n", m.ModuleID, count)
			} else {
				fmt.Fprintf(&b, " ✓ %s (%d tests) 0ms\n", m.ModuleID, count)
			}
			continue
		}

		fmt.Fprintf(&b, " ❯ %s (%d tests | %d failed) 0ms\n", m.ModuleID, count, failed)
		for _, t := range m.Tests {
			switch {
			case IsPassingTest(t):
				fmt.Fprintf(&b, "   ✓ %s 0ms\n", t.FullName)
			case IsFailingTest(t):
				fmt.Fprintf(&b, "   × %s 0ms\n", t.FullName)
				for _, e := range t.Errors {
					fmt.Fprintf(&b, "     → %s\n", e.Message)
				}
			}
		}
	}
	return b.String()
}

func formatUnhandled(r *Result) string {
	if len(r.UnhandledErrors) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nUnhandled Errors:\n")
	for _, e := range r.UnhandledErrors {
		if e.Name != "" {
			fmt.Fprintf(&b, " × %s: %s\n", e.Name, e.Message)
		} else {
			fmt.Fprintf(&b, " × %s\n", e.Message)
		}
		if e.Stack != "" {
			b.WriteString("   Stack:\n")
			for _, line := range strings.Split(e.Stack, "\n") {
				if strings.TrimSpace(line) != "" {
					fmt.Fprintf(&b, "     %s\n", line)
				}
			}
		}
	}
	return b.String()
}

func formatSummary(r *Result) string {
	var failedTests, passedTests, failedModules, passedModules int
	for _, m := range r.TestModules {
		failed := failingTests(m.Tests)
		for _, t := range m.Tests {
			if IsPassingTest(t) {
				passedTests++
			}
		}
		failedTests += failed

		switch {
		case failed > 0:
			failedModules++
		case len(m.Tests) == 0 && r.Reason == "failed":
			failedModules++
		default:
			passedModules++
		}
	}

	var b strings.Builder
	switch {
	case failedTests == 0 && failedModules == 0:
		fmt.Fprintf(&b, " Test Files  %d passed (%d)\n", passedModules, passedModules)
		fmt.Fprintf(&b, "      Tests  %d passed (%d)\n", passedTests, passedTests)
	case passedTests > 0:
		fmt.Fprintf(&b, " Test Files  %d failed | %d passed (%d)\n", failedModules, passedModules, failedModules+passedModules)
		fmt.Fprintf(&b, "      Tests  %d failed | %d passed (%d)\n", failedTests, passedTests, failedTests+passedTests)
	default:
		fmt.Fprintf(&b, " Test Files  %d failed (%d)\n", failedModules, failedModules)
		fmt.Fprintf(&b, "      Tests  %d failed (%d)\n", failedTests, failedTests)
	}
	return b.String()
}
