package runner

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/reqsuite/packages/assertions"
	"github.com/abdul-hamid-achik/reqsuite/packages/core/env"
	"github.com/abdul-hamid-achik/reqsuite/packages/http"
	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
)

// UserAgent is sent with every request.
const UserAgent = "reqsuite"

type Runner struct {
	client   *http.Client
	resolver *env.Resolver
	limiter  *rate.Limiter
	config   *Config
	log      logrus.FieldLogger
}

type Config struct {
	// BaseURL overrides the suite's base URL when set.
	BaseURL string
	// Timeout applies to cases without their own timeout.
	Timeout    time.Duration
	Bail       bool
	NameFilter string
	TagsFilter []string
	// Rate caps requests per second; zero disables pacing.
	Rate float64
	// MaxRedirects bounds redirects per request; zero keeps the client default.
	MaxRedirects int
	// NoRedirects reports 3xx responses instead of following them.
	NoRedirects bool
	// Headers are sent with every request; case headers take precedence.
	Headers map[string]string
	// Variables seed template resolution; suite variables take precedence.
	Variables map[string]string
	Proxy     string
	Insecure  bool
	Logger    logrus.FieldLogger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	clientOpts := []http.ClientOption{
		http.WithUserAgent(UserAgent),
		http.WithDefaultHeaders(cfg.Headers),
		http.WithValidateSSL(!cfg.Insecure),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	switch {
	case cfg.NoRedirects:
		clientOpts = append(clientOpts, http.WithFollowRedirects(false))
	case cfg.MaxRedirects > 0:
		clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
	}

	resolver := env.NewResolver()
	resolver.SetLogger(log)
	resolver.SetVariables(cfg.Variables)

	r := &Runner{
		client:   http.NewClient(clientOpts...),
		resolver: resolver,
		config:   cfg,
		log:      log,
	}
	if cfg.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	return r
}

// Run executes the suite's cases in order and returns one result per case.
// Case failures never produce an error. Canceling ctx fails the in-flight
// case with KindCanceled and skips the rest.
func (r *Runner) Run(ctx context.Context, s *suite.Suite) (*Report, error) {
	if s == nil {
		return nil, errors.New("runner: nil suite")
	}

	start := time.Now()
	baseURL := r.baseURL(s)
	report := &Report{
		Suite:     s.Name,
		BaseURL:   baseURL,
		StartedAt: start,
	}

	resolver := r.resolver.Clone()
	resolver.SetVariables(s.Variables)

	latency := newLatencyRecorder()
	log := r.log.WithField("suite", s.Name)
	stopReason := ""

	for i := range s.Cases {
		tc := &s.Cases[i]

		if stopReason == "" && ctx.Err() != nil {
			stopReason = ReasonCanceled
		}
		if stopReason != "" {
			report.add(skippedResult(tc.Name, tc.Method, tc.Tags, stopReason))
			continue
		}
		if reason, skip := r.skipReason(tc); skip {
			log.WithField("case", tc.Name).Debugf("skipped: %s", reason)
			report.add(skippedResult(tc.Name, tc.Method, tc.Tags, reason))
			continue
		}

		res := r.runCase(ctx, tc, baseURL, resolver)
		report.add(res)
		if res.Response != nil {
			latency.record(res.Response.Duration)
		}

		entry := log.WithFields(logrus.Fields{
			"case":     tc.Name,
			"status":   res.Status,
			"duration": res.Duration.Round(time.Millisecond),
		})
		if res.Passed {
			entry.Debug("case passed")
			continue
		}
		entry.WithField("kind", res.Kind).Debugf("case failed: %s", res.Detail)

		switch {
		case res.Kind == KindCanceled:
			stopReason = ReasonCanceled
			log.Warn("run canceled, skipping remaining cases")
		case r.config.Bail:
			stopReason = ReasonFailFast
			log.WithField("case", tc.Name).Info("fail fast, skipping remaining cases")
		}
	}

	report.Duration = time.Since(start)
	report.Latency = latency.stats()
	return report, nil
}

func (r *Runner) baseURL(s *suite.Suite) string {
	switch {
	case r.config.BaseURL != "":
		return r.config.BaseURL
	case s.BaseURL != "":
		return s.BaseURL
	default:
		return suite.DefaultBaseURL
	}
}

func (r *Runner) skipReason(tc *suite.TestCase) (string, bool) {
	if tc.Skip != "" {
		return tc.Skip, true
	}
	if r.config.NameFilter != "" && !matchesPattern(tc.Name, r.config.NameFilter) {
		return ReasonFiltered, true
	}
	if len(r.config.TagsFilter) > 0 && !tc.HasTag(r.config.TagsFilter...) {
		return ReasonFiltered, true
	}
	return "", false
}

func (r *Runner) runCase(ctx context.Context, tc *suite.TestCase, baseURL string, resolver *env.Resolver) *CaseResult {
	result := &CaseResult{
		Name:   tc.Name,
		Method: tc.Method,
		Tags:   tc.Tags,
		State:  StateRunning,
	}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			result.Error = err
			return result.fail(KindCanceled, "waiting for rate limiter: %v", err)
		}
	}

	req, err := r.buildRequest(tc, baseURL, resolver)
	if err != nil {
		result.Error = err
		return result.fail(KindNetwork, "building request: %v", err)
	}
	result.Request = req
	result.URL = req.URL

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		result.Error = err
		switch kind := classifyError(err); kind {
		case KindTimeout:
			return result.fail(kind, "no response within %s", r.effectiveTimeout(tc))
		case KindCanceled:
			return result.fail(kind, "request canceled")
		default:
			return result.fail(kind, "%v", err)
		}
	}
	result.Response = resp
	result.Status = resp.StatusCode

	if tc.ShouldFailOnStatusCode() && !resp.IsSuccess() && !resp.IsRedirect() {
		return result.fail(KindStatus, "status %d is not 2xx or 3xx (failOnStatusCode is enabled)", resp.StatusCode)
	}

	eval := assertions.NewEvaluator(resp)
	result.Assertions = append(result.Assertions, eval.CheckStatus(tc.ExpectStatus))
	for _, a := range tc.Assertions {
		result.Assertions = append(result.Assertions, eval.Evaluate(a))
	}

	return result.settle()
}

func (r *Runner) buildRequest(tc *suite.TestCase, baseURL string, resolver *env.Resolver) (*http.Request, error) {
	target, err := http.JoinURL(baseURL, resolver.Resolve(tc.URL))
	if err != nil {
		return nil, err
	}

	var body any
	if tc.HasBody() {
		body = resolver.ResolveBody(tc.Body)
	}

	req, err := http.NewJSONRequest(strings.ToUpper(tc.Method), target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range resolver.ResolveAll(tc.Headers) {
		req.SetHeader(k, v)
	}

	if tc.Timeout > 0 {
		req.SetTimeout(tc.Timeout)
	}
	return req, nil
}

func (r *Runner) effectiveTimeout(tc *suite.TestCase) time.Duration {
	if tc.Timeout > 0 {
		return tc.Timeout
	}
	return r.client.Timeout()
}

// classifyError maps a transport error to a failure kind.
func classifyError(err error) FailureKind {
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if len(pattern) > 1 && pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}
