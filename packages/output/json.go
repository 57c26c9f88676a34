package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Runs     []JSONRun   `json:"runs"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary totals all runs
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONRun is one execution of a suite
type JSONRun struct {
	Suite   string      `json:"suite"`
	BaseURL string      `json:"baseUrl"`
	Summary JSONSummary `json:"summary"`
	Latency JSONLatency `json:"latency"`
	Tests   []JSONTest  `json:"tests"`
}

// JSONLatency holds request latency percentiles in milliseconds
type JSONLatency struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
}

// JSONTest represents a single case result
type JSONTest struct {
	Name          string          `json:"name"`
	State         string          `json:"state"`
	Passed        bool            `json:"passed"`
	Skipped       bool            `json:"skipped,omitempty"`
	SkipReason    string          `json:"skipReason,omitempty"`
	Kind          string          `json:"kind,omitempty"`
	FailureDetail string          `json:"failureDetail,omitempty"`
	Status        int             `json:"status,omitempty"`
	Duration      float64         `json:"duration"`
	Tags          []string        `json:"tags,omitempty"`
	Request       *JSONRequest    `json:"request,omitempty"`
	Response      *JSONResponse   `json:"response,omitempty"`
	Assertions    []JSONAssertion `json:"assertions,omitempty"`
}

// JSONRequest represents request details
type JSONRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// JSONResponse represents response details
type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Duration   float64           `json:"duration"`
}

// JSONAssertion represents a check result
type JSONAssertion struct {
	Subject  string `json:"subject"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
}

// JSONFormatter formats reports as JSON
type JSONFormatter struct {
	writer io.Writer
	runs   []JSONRun
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		runs:   make([]JSONRun, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (f *JSONFormatter) FormatResult(report *runner.Report) {
	run := JSONRun{
		Suite:   report.Suite,
		BaseURL: report.BaseURL,
		Summary: JSONSummary{
			Total:   report.Total(),
			Passed:  report.Passed,
			Failed:  report.Failed,
			Skipped: report.Skipped,
		},
		Latency: JSONLatency{
			Count: report.Latency.Count,
			Min:   millis(report.Latency.Min),
			Mean:  millis(report.Latency.Mean),
			P50:   millis(report.Latency.P50),
			P90:   millis(report.Latency.P90),
			P99:   millis(report.Latency.P99),
			Max:   millis(report.Latency.Max),
		},
		Tests: make([]JSONTest, 0, len(report.Results)),
	}

	for _, r := range report.Results {
		test := JSONTest{
			Name:          r.Name,
			State:         r.State.String(),
			Passed:        r.Passed,
			Skipped:       r.Skipped,
			SkipReason:    r.SkipReason,
			Kind:          string(r.Kind),
			FailureDetail: r.FailureDetail(),
			Status:        r.Status,
			Duration:      millis(r.Duration),
			Tags:          r.Tags,
		}

		if r.Request != nil {
			test.Request = &JSONRequest{
				Method:  r.Request.Method,
				URL:     r.Request.URL,
				Headers: r.Request.Headers,
			}
		}

		if r.Response != nil {
			test.Response = &JSONResponse{
				StatusCode: r.Response.StatusCode,
				Status:     r.Response.Status,
				Headers:    r.Response.Headers,
				Duration:   millis(r.Response.Duration),
			}
		}

		for _, a := range r.Assertions {
			test.Assertions = append(test.Assertions, JSONAssertion{
				Subject:  a.Subject,
				Operator: a.Operator,
				Expected: a.Expected,
				Actual:   a.Actual,
				Passed:   a.Passed,
				Message:  a.Message,
			})
		}

		run.Tests = append(run.Tests, test)
	}

	f.runs = append(f.runs, run)
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, run := range f.runs {
		summary.Total += run.Summary.Total
		summary.Passed += run.Summary.Passed
		summary.Failed += run.Summary.Failed
		summary.Skipped += run.Summary.Skipped
	}

	output := JSONOutput{
		Summary:  summary,
		Runs:     f.runs,
		Duration: millis(totalDuration),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
