package suite

import (
	"net/http"
	"time"
)

// Suite is an ordered collection of test cases run against one base URL.
type Suite struct {
	Name      string            `yaml:"name"`
	BaseURL   string            `yaml:"baseUrl,omitempty" validate:"omitempty,url"`
	Variables map[string]string `yaml:"variables,omitempty"`
	Cases     []TestCase        `yaml:"cases" validate:"required,min=1,dive"`

	// Path is the file the suite was loaded from, empty for built-in suites.
	Path string `yaml:"-"`
}

// TestCase is a single request and the expectations checked against its response.
type TestCase struct {
	Name             string            `yaml:"name" validate:"required"`
	Method           string            `yaml:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	URL              string            `yaml:"url" validate:"required"`
	Headers          map[string]string `yaml:"headers,omitempty"`
	Body             map[string]any    `yaml:"body,omitempty"`
	ExpectStatus     int               `yaml:"expectStatus" validate:"required,min=100,max=599"`
	FailOnStatusCode *bool             `yaml:"failOnStatusCode,omitempty"`
	Timeout          time.Duration     `yaml:"timeout,omitempty" validate:"gte=0"`
	Tags             []string          `yaml:"tags,omitempty"`
	Skip             string            `yaml:"skip,omitempty"`
	Assertions       []Assertion       `yaml:"assertions,omitempty" validate:"dive"`
}

// Assertion pairs a path into the response body with a predicate.
// Path uses gjson syntax; "data[0].name" is accepted as well as "data.0.name".
type Assertion struct {
	Path      string    `yaml:"path"`
	Predicate Predicate `yaml:"predicate" validate:"required,predicate"`
	Value     any       `yaml:"value,omitempty"`
}

// ShouldFailOnStatusCode reports whether a non-2xx/3xx response fails the
// case before any expectation is checked. It defaults to true.
func (tc *TestCase) ShouldFailOnStatusCode() bool {
	if tc.FailOnStatusCode == nil {
		return true
	}
	return *tc.FailOnStatusCode
}

// HasBody reports whether the case sends a request body.
func (tc *TestCase) HasBody() bool {
	return tc.Body != nil && tc.Method != http.MethodGet
}

// HasTag reports whether the case carries any of the given tags.
func (tc *TestCase) HasTag(tags ...string) bool {
	for _, want := range tags {
		for _, tag := range tc.Tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// Len returns the number of cases in the suite.
func (s *Suite) Len() int {
	return len(s.Cases)
}
