package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/runner"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case nil:
		return "<missing>"
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func (f *ConsoleFormatter) FormatResult(report *runner.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold(report.Suite))
	fmt.Fprintf(f.writer, "%s\n\n", cyan(report.BaseURL))

	for _, r := range report.Results {
		if r.Skipped {
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), r.Name)
			if r.SkipReason != "" && r.SkipReason != runner.ReasonFiltered {
				fmt.Fprintf(f.writer, " (%s)", r.SkipReason)
			}
			fmt.Fprintf(f.writer, "\n")
			continue
		}

		if r.Passed {
			fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), r.Name, cyan("("+ms(r.Duration)+")"))
		} else {
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), r.Name, cyan("("+ms(r.Duration)+")"))
			fmt.Fprintf(f.writer, "    %s\n", red(r.FailureDetail()))
		}

		if f.verbose {
			if r.Request != nil {
				fmt.Fprintf(f.writer, "    %s %s\n", r.Request.Method, r.Request.URL)
			}
			if r.Response != nil {
				fmt.Fprintf(f.writer, "    Status: %d\n", r.Response.StatusCode)
			}
		}

		if !r.Passed && (f.verbose || r.Kind == runner.KindAssertion) {
			for _, a := range r.Assertions {
				if a.Passed {
					continue
				}
				fmt.Fprintf(f.writer, "    %s %s %s\n", red("→"), a.Subject, a.Operator)
				fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(a.Expected, 100))
				fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(a.Actual, 100))
			}
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Tests:   ")
	if report.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", report.Passed)))
	}
	if report.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", report.Failed)))
	}
	if report.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", report.Skipped)))
	}
	fmt.Fprintf(f.writer, "%d total\n", report.Total())

	if counts := report.KindCounts(); len(counts) > 0 {
		fmt.Fprintf(f.writer, "Kinds:   %s\n", formatKindCounts(counts))
	}

	if l := report.Latency; l.Count > 0 {
		fmt.Fprintf(f.writer, "Latency: p50 %s, p90 %s, p99 %s, max %s\n", ms(l.P50), ms(l.P90), ms(l.P99), ms(l.Max))
	}
	fmt.Fprintf(f.writer, "Time:    %s\n", ms(report.Duration))
	fmt.Fprintf(f.writer, "\n")
}

func formatKindCounts(counts map[runner.FailureKind]int) string {
	parts := make([]string, 0, len(counts))
	for kind, n := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("reqsuite"), version)
}
