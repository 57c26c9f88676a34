package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/runner"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
}

type tapResult struct {
	number     int
	name       string
	passed     bool
	skipped    bool
	skipReason string
	kind       runner.FailureKind
	detail     string
	assertions []string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(report *runner.Report) {
	for _, r := range report.Results {
		f.testCount++
		tr := tapResult{
			number:     f.testCount,
			name:       r.Name,
			passed:     r.Passed,
			skipped:    r.Skipped,
			skipReason: r.SkipReason,
			kind:       r.Kind,
			detail:     r.Detail,
		}

		for _, a := range r.Assertions {
			if !a.Passed {
				tr.assertions = append(tr.assertions, fmt.Sprintf(
					"%s %s: expected %v, got %v",
					a.Subject, a.Operator, a.Expected, formatValue(a.Actual, 100)))
			}
		}

		f.results = append(f.results, tr)
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	// TAP version header
	fmt.Fprintf(f.writer, "TAP version 13\n")

	// Test plan
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	// Individual test results
	for _, r := range f.results {
		if r.skipped {
			if r.skipReason == "" || r.skipReason == runner.ReasonFiltered {
				fmt.Fprintf(f.writer, "ok %d - %s # SKIP\n", r.number, r.name)
			} else {
				fmt.Fprintf(f.writer, "ok %d - %s # SKIP %s\n", r.number, r.name, r.skipReason)
			}
			continue
		}

		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
		fmt.Fprintf(f.writer, "  ---\n")
		fmt.Fprintf(f.writer, "  kind: %s\n", r.kind)
		fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.detail))
		if isTransportKind(r.kind) {
			fmt.Fprintf(f.writer, "  severity: error\n")
		} else {
			fmt.Fprintf(f.writer, "  severity: fail\n")
		}
		if len(r.assertions) > 0 {
			fmt.Fprintf(f.writer, "  failures:\n")
			for _, a := range r.assertions {
				fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(a))
			}
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	// Add final newline for proper TAP output
	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
