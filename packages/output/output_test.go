package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abdul-hamid-achik/reqsuite/packages/assertions"
	"github.com/abdul-hamid-achik/reqsuite/packages/core/runner"
	"github.com/abdul-hamid-achik/reqsuite/packages/http"
)

func sampleReport() *runner.Report {
	return &runner.Report{
		Suite:     "ReqRes API Endpoints Tests",
		BaseURL:   "https://reqres.in",
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:  1200 * time.Millisecond,
		Passed:    1,
		Failed:    2,
		Skipped:   1,
		Latency: runner.LatencyStats{
			Count: 3, Min: 40 * time.Millisecond, P50: 80 * time.Millisecond,
			P90: 900 * time.Millisecond, P99: 900 * time.Millisecond, Max: 900 * time.Millisecond,
		},
		Results: []*runner.CaseResult{
			{
				Name:     "GET /api/users - Validate list of users",
				Method:   "GET",
				URL:      "https://reqres.in/api/users",
				State:    runner.StatePassed,
				Passed:   true,
				Status:   200,
				Duration: 80 * time.Millisecond,
				Tags:     []string{"users", "read"},
				Request:  &http.Request{Method: "GET", URL: "https://reqres.in/api/users"},
				Response: &http.Response{StatusCode: 200, Status: "200 OK", Duration: 80 * time.Millisecond},
				Assertions: []*assertions.Result{
					{Subject: "status", Operator: "equals", Expected: 200, Actual: 200, Passed: true},
				},
			},
			{
				Name:     "GET /api/users/2 - Validate single user details",
				Method:   "GET",
				URL:      "https://reqres.in/api/users/2",
				State:    runner.StateFailed,
				Kind:     runner.KindAssertion,
				Detail:   "body.data.id: expected 2, got 3",
				Status:   200,
				Duration: 40 * time.Millisecond,
				Assertions: []*assertions.Result{
					{Subject: "status", Operator: "equals", Expected: 200, Actual: 200, Passed: true},
					{Subject: "body.data.id", Operator: "equals", Expected: 2, Actual: 3, Message: "expected 2, got 3"},
				},
			},
			{
				Name:     "GET /api/users?delay=3 - Test delayed response",
				Method:   "GET",
				State:    runner.StateFailed,
				Kind:     runner.KindTimeout,
				Detail:   "no response within 10s",
				Duration: 10 * time.Second,
				Error:    errors.New("context deadline exceeded"),
			},
			{
				Name:       "DELETE /api/users/2 - Delete a user",
				Method:     "DELETE",
				State:      runner.StateNotRun,
				Skipped:    true,
				SkipReason: runner.ReasonFailFast,
			},
		},
	}
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHeader("1.0.0")
	f.FormatResult(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "reqsuite 1.0.0")
	assert.Contains(t, out, "✓ GET /api/users - Validate list of users (80ms)")
	assert.Contains(t, out, "✗ GET /api/users/2 - Validate single user details")
	assert.Contains(t, out, "[assertion] body.data.id: expected 2, got 3")
	assert.Contains(t, out, "Expected: 2")
	assert.Contains(t, out, "[timeout] no response within 10s")
	assert.Contains(t, out, "- DELETE /api/users/2 - Delete a user (not run: fail fast)")
	assert.Contains(t, out, "1 passed, 2 failed, 1 skipped, 4 total")
	assert.Contains(t, out, "Kinds:   assertion=1, timeout=1")
	assert.Contains(t, out, "Latency: p50 80ms, p90 900ms, p99 900ms, max 900ms")
	assert.Contains(t, out, "Time:    1200ms")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatResult(sampleReport())

	assert.Contains(t, buf.String(), "GET https://reqres.in/api/users")
	assert.Contains(t, buf.String(), "Status: 200")
}

func TestConsoleFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleFormatter(WithWriter(&buf), WithNoColor(true)).FormatError(errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResult(sampleReport())
	f.FormatResult(sampleReport())
	require.NoError(t, f.Flush(3*time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, JSONSummary{Total: 8, Passed: 2, Failed: 4, Skipped: 2}, out.Summary)
	assert.Equal(t, 3000.0, out.Duration)
	require.Len(t, out.Runs, 2)

	run := out.Runs[0]
	assert.Equal(t, "https://reqres.in", run.BaseURL)
	assert.Equal(t, 80.0, run.Latency.P50)
	require.Len(t, run.Tests, 4)
	assert.Equal(t, "passed", run.Tests[0].State)
	assert.Equal(t, 200, run.Tests[0].Response.StatusCode)
	assert.Equal(t, "assertion", run.Tests[1].Kind)
	assert.Equal(t, "[assertion] body.data.id: expected 2, got 3", run.Tests[1].FailureDetail)
	assert.Equal(t, "[timeout] no response within 10s", run.Tests[2].FailureDetail)
	assert.Equal(t, "not-run", run.Tests[3].State)
	assert.Equal(t, runner.ReasonFailFast, run.Tests[3].SkipReason)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleReport())
	require.NoError(t, f.Flush(time.Second))

	assert.Contains(t, buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`)

	var out JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "reqsuite", out.Name)
	assert.Equal(t, 4, out.Tests)
	assert.Equal(t, 1, out.Failures)
	assert.Equal(t, 1, out.Errors)
	assert.Equal(t, 1, out.Skipped)

	cases := out.TestSuites[0].TestCases
	require.Len(t, cases, 4)
	assert.Nil(t, cases[0].Failure)
	require.NotNil(t, cases[1].Failure)
	assert.Equal(t, "assertion", cases[1].Failure.Type)
	assert.Contains(t, cases[1].Failure.Content, "body.data.id equals: expected 2, got 3")
	require.NotNil(t, cases[2].Error)
	assert.Equal(t, "timeout", cases[2].Error.Type)
	require.NotNil(t, cases[3].Skipped)
}

func TestJUnitFormatter_RepeatedRunsGetDistinctNames(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleReport())
	f.FormatResult(sampleReport())
	require.NoError(t, f.Flush(time.Second))

	var out JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.TestSuites, 2)
	assert.Equal(t, "ReqRes API Endpoints Tests", out.TestSuites[0].Name)
	assert.Equal(t, "ReqRes API Endpoints Tests (run 2)", out.TestSuites[1].Name)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatResult(sampleReport())
	require.NoError(t, f.Flush(time.Second))
	out := buf.String()

	assert.Contains(t, out, "TAP version 13\n1..4\n")
	assert.Contains(t, out, "ok 1 - GET /api/users - Validate list of users\n")
	assert.Contains(t, out, "not ok 2 - GET /api/users/2 - Validate single user details\n")
	assert.Contains(t, out, "  kind: assertion\n")
	assert.Contains(t, out, `    - "body.data.id equals: expected 2, got 3"`)
	assert.Contains(t, out, "  kind: timeout\n  message: no response within 10s\n  severity: error\n")
	assert.Contains(t, out, "ok 4 - DELETE /api/users/2 - Delete a user # SKIP not run: fail fast\n")
}

func TestXLSXFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewXLSXFormatter(XLSXWithWriter(&buf), XLSXWithSlowThreshold(50*time.Millisecond))

	f.FormatResult(sampleReport())
	f.FormatResult(sampleReport())
	require.NoError(t, f.Flush(time.Second))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Run 1", "Run 2"}, book.GetSheetList())

	rows, err := book.GetRows("Run 1")
	require.NoError(t, err)
	assert.Equal(t, xlsxHeaders, rows[0])
	assert.Equal(t, "GET /api/users - Validate list of users", rows[1][1])
	assert.Equal(t, "200", rows[1][4])
	assert.Equal(t, "passed", rows[1][5])
	assert.Equal(t, "assertion", rows[2][6])
	assert.Equal(t, "body.data.id: expected 2, got 3", rows[2][7])
	assert.Equal(t, runner.ReasonFailFast, rows[4][7])

	failed, err := book.GetCellStyle("Run 1", "A3")
	require.NoError(t, err)
	slow, err := book.GetCellStyle("Run 1", "A2")
	require.NoError(t, err)
	assert.NotZero(t, failed)
	assert.NotZero(t, slow)
	assert.NotEqual(t, failed, slow)

	passed, err := book.GetCellValue("Run 1", "B11")
	require.NoError(t, err)
	assert.Equal(t, "1", passed)

	for col, want := range map[string]float64{"A": defaultColWidth, "B": wideColWidth, "D": wideColWidth, "H": wideColWidth} {
		width, err := book.GetColWidth("Run 2", col)
		require.NoError(t, err)
		assert.Equal(t, want, width, "column %s", col)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "<missing>", formatValue(nil, 10))
	assert.Equal(t, "[array with 2 items]", formatValue([]any{1, 2}, 10))
	assert.Equal(t, "{object with 1 keys}", formatValue(map[string]any{"a": 1}, 10))
	assert.Equal(t, "abc...", formatValue("abcdef", 3))
}
