package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/reqsuite/packages/assertions"
	"github.com/abdul-hamid-achik/reqsuite/packages/http"
)

// State is the lifecycle position of a single case.
type State int

const (
	StateNotRun State = iota
	StateRunning
	StatePassed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePassed:
		return "passed"
	case StateFailed:
		return "failed"
	default:
		return "not-run"
	}
}

// FailureKind classifies why a case failed.
type FailureKind string

const (
	KindNone          FailureKind = ""
	KindAssertion     FailureKind = "assertion"
	KindStatus        FailureKind = "status"
	KindNetwork       FailureKind = "network"
	KindTimeout       FailureKind = "timeout"
	KindCanceled      FailureKind = "canceled"
	KindMalformedBody FailureKind = "malformed-body"
)

// Skip reasons set by the runner itself.
const (
	ReasonFiltered = "filtered out"
	ReasonFailFast = "not run: fail fast"
	ReasonCanceled = "not run: canceled"
)

type CaseResult struct {
	Name       string
	Method     string
	URL        string
	Tags       []string
	State      State
	Passed     bool
	Skipped    bool
	SkipReason string
	Kind       FailureKind
	Detail     string
	Status     int
	Duration   time.Duration
	Request    *http.Request
	Response   *http.Response
	Assertions []*assertions.Result
	Error      error
}

// FailureDetail is the tagged detail line for a failed case, e.g.
// "[timeout] no response within 10s". It is empty for passed and skipped
// cases.
func (c *CaseResult) FailureDetail() string {
	if c.State != StateFailed {
		return ""
	}
	return fmt.Sprintf("[%s] %s", c.Kind, c.Detail)
}

func (c *CaseResult) fail(kind FailureKind, format string, args ...any) *CaseResult {
	c.State = StateFailed
	c.Passed = false
	c.Kind = kind
	c.Detail = fmt.Sprintf(format, args...)
	return c
}

// settle derives the outcome from the recorded checks. The first failed
// check decides the failure kind.
func (c *CaseResult) settle() *CaseResult {
	var failures []string
	for _, a := range c.Assertions {
		if a.Passed {
			continue
		}
		if c.Kind == KindNone {
			c.Kind = KindAssertion
			if a.Malformed {
				c.Kind = KindMalformedBody
			}
		}
		if a.Subject == "status" {
			failures = append(failures, a.Message)
		} else {
			failures = append(failures, a.Subject+": "+a.Message)
		}
	}

	if len(failures) == 0 {
		c.State = StatePassed
		c.Passed = true
		return c
	}

	c.State = StateFailed
	c.Detail = strings.Join(failures, "; ")
	return c
}

func skippedResult(name, method string, tags []string, reason string) *CaseResult {
	return &CaseResult{
		Name:       name,
		Method:     method,
		Tags:       tags,
		State:      StateNotRun,
		Skipped:    true,
		SkipReason: reason,
	}
}

type Report struct {
	Suite     string
	BaseURL   string
	StartedAt time.Time
	Results   []*CaseResult
	Duration  time.Duration
	Passed    int
	Failed    int
	Skipped   int
	Latency   LatencyStats
}

func (r *Report) add(res *CaseResult) {
	r.Results = append(r.Results, res)
	switch {
	case res.Skipped:
		r.Skipped++
	case res.Passed:
		r.Passed++
	default:
		r.Failed++
	}
}

// OK reports whether no case failed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// String summarizes a report in one line.
func (r *Report) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		r.Passed, r.Failed, r.Skipped, r.Duration.Round(time.Millisecond))
}

func (r *Report) Total() int {
	return len(r.Results)
}

// Failures returns the failed cases in suite order.
func (r *Report) Failures() []*CaseResult {
	var failed []*CaseResult
	for _, res := range r.Results {
		if res.State == StateFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// KindCounts tallies failed cases by kind.
func (r *Report) KindCounts() map[FailureKind]int {
	counts := make(map[FailureKind]int)
	for _, res := range r.Failures() {
		counts[res.Kind]++
	}
	return counts
}

// Drift lists the cases whose observed status or outcome differs between
// reports of the same suite. Skipped cases are ignored.
func Drift(reports ...*Report) []string {
	if len(reports) < 2 {
		return nil
	}

	type outcome struct {
		status int
		passed bool
	}
	first := make(map[string]outcome)
	for _, res := range reports[0].Results {
		if !res.Skipped {
			first[res.Name] = outcome{res.Status, res.Passed}
		}
	}

	seen := make(map[string]bool)
	var drift []string
	for _, report := range reports[1:] {
		for _, res := range report.Results {
			want, ok := first[res.Name]
			if !ok || res.Skipped || seen[res.Name] {
				continue
			}
			if want.status != res.Status || want.passed != res.Passed {
				seen[res.Name] = true
				drift = append(drift, res.Name)
			}
		}
	}
	return drift
}
