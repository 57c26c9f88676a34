package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abdul-hamid-achik/reqsuite/packages/assertions"
)

func TestCaseResult_Settle(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		res := (&CaseResult{Assertions: []*assertions.Result{{Passed: true}}}).settle()
		assert.Equal(t, StatePassed, res.State)
		assert.True(t, res.Passed)
		assert.Empty(t, res.FailureDetail())
	})

	t.Run("first failure decides the kind", func(t *testing.T) {
		res := (&CaseResult{Assertions: []*assertions.Result{
			{Passed: true, Subject: "status"},
			{Subject: "body.data", Message: "response body is not valid JSON", Malformed: true},
			{Subject: "body.id", Message: "expected 1, got 2"},
		}}).settle()

		assert.Equal(t, StateFailed, res.State)
		assert.Equal(t, KindMalformedBody, res.Kind)
		assert.Equal(t, "[malformed-body] body.data: response body is not valid JSON; body.id: expected 1, got 2", res.FailureDetail())
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not-run", StateNotRun.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "passed", StatePassed.String())
	assert.Equal(t, "failed", StateFailed.String())
}

func TestReport_Counts(t *testing.T) {
	r := &Report{Duration: 1500 * time.Millisecond}
	r.add(&CaseResult{Name: "a", State: StatePassed, Passed: true})
	r.add(&CaseResult{Name: "b", State: StateFailed, Kind: KindTimeout})
	r.add(&CaseResult{Name: "c", State: StateFailed, Kind: KindTimeout})
	r.add(skippedResult("d", "GET", nil, ReasonFiltered))

	assert.Equal(t, 4, r.Total())
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 2, r.Failed)
	assert.Equal(t, 1, r.Skipped)
	assert.Len(t, r.Failures(), 2)
	assert.Equal(t, map[FailureKind]int{KindTimeout: 2}, r.KindCounts())
	assert.Equal(t, "1 passed, 2 failed, 1 skipped in 1.5s", r.String())
}

func TestDrift(t *testing.T) {
	first := &Report{Results: []*CaseResult{
		{Name: "list", Status: 200, Passed: true},
		{Name: "missing", Status: 404, Passed: true},
		skippedResult("parked", "GET", nil, "later"),
	}}
	same := &Report{Results: []*CaseResult{
		{Name: "list", Status: 200, Passed: true},
		{Name: "missing", Status: 404, Passed: true},
	}}
	changed := &Report{Results: []*CaseResult{
		{Name: "list", Status: 200, Passed: true},
		{Name: "missing", Status: 200, Passed: false},
		{Name: "parked", Status: 200, Passed: true},
	}}

	assert.Empty(t, Drift(first))
	assert.Empty(t, Drift(first, same))
	assert.Equal(t, []string{"missing"}, Drift(first, same, changed, changed))
}

func TestLatencyRecorder(t *testing.T) {
	l := newLatencyRecorder()
	assert.Equal(t, LatencyStats{}, l.stats())

	for _, ms := range []int{10, 20, 30, 40, 1000} {
		l.record(time.Duration(ms) * time.Millisecond)
	}
	l.record(0)
	l.record(2 * time.Minute)

	stats := l.stats()
	assert.EqualValues(t, 7, stats.Count)
	assert.Equal(t, time.Microsecond, stats.Min)
	assert.InDelta(t, float64(time.Minute), float64(stats.Max), float64(100*time.Millisecond))
	assert.InDelta(t, float64(30*time.Millisecond), float64(stats.P50), float64(time.Millisecond))
	assert.LessOrEqual(t, stats.P90, stats.P99)
}
