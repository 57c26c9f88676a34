package assertions

import (
	"testing"
	"time"

	"github.com/abdul-hamid-achik/reqsuite/packages/http"
	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResponse(statusCode int, body string, headers map[string]string) *http.Response {
	if headers == nil {
		headers = make(map[string]string)
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	return &http.Response{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       []byte(body),
		Duration:   100 * time.Millisecond,
	}
}

const usersPage = `{
	"page": 1,
	"per_page": 6,
	"total": 12,
	"data": [
		{"id": 1, "email": "george.bluth@reqres.in", "first_name": "George"},
		{"id": 2, "email": "janet.weaver@reqres.in", "first_name": "Janet"}
	],
	"support": {"url": "https://reqres.in/#support-heading", "text": null}
}`

func TestEvaluator_CheckStatus(t *testing.T) {
	e := NewEvaluator(createResponse(404, `{}`, nil))

	result := e.CheckStatus(404)
	assert.True(t, result.Passed)
	assert.Equal(t, "status", result.Subject)
	assert.Equal(t, 404, result.Actual)

	result = e.CheckStatus(200)
	assert.False(t, result.Passed)
	assert.Equal(t, "expected status 200, got 404", result.Message)
}

func TestEvaluator_Paths(t *testing.T) {
	e := NewEvaluator(createResponse(200, usersPage, nil))

	tests := []struct {
		name      string
		assertion suite.Assertion
		passed    bool
	}{
		{"data length greater than zero", suite.LengthGreaterThan("data", 0), true},
		{"data length greater than two", suite.LengthGreaterThan("data", 2), false},
		{"bracket index", suite.Equals("data[1].id", 2), true},
		{"dot index", suite.Equals("data.1.first_name", "Janet"), true},
		{"body prefix", suite.Equals("body.page", 1), true},
		{"first item has name field", suite.Exists("data[0].first_name"), true},
		{"missing field", suite.Exists("data[0].last_name"), false},
		{"null value is present", suite.Exists("support.text"), true},
		{"whole body", suite.Exists("body"), true},
		{"numeric string", suite.Equals("total", "12"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(tt.assertion)
			assert.Equal(t, tt.passed, result.Passed, "Message: %s", result.Message)
			assert.False(t, result.Malformed)
		})
	}
}

func TestEvaluator_Predicates(t *testing.T) {
	body := `{
		"name": "morpheus",
		"job": "zion resident",
		"id": "174",
		"createdAt": "2024-05-01T10:00:00.000Z",
		"age": 30,
		"tags": ["a", "b"],
		"meta": {"k": "v"},
		"active": true
	}`
	e := NewEvaluator(createResponse(201, body, nil))

	tests := []struct {
		name      string
		path      string
		predicate suite.Predicate
		value     any
		passed    bool
	}{
		{"equals string", "job", suite.PredEquals, "zion resident", true},
		{"equals mismatch", "job", suite.PredEquals, "leader", false},
		{"not equals", "name", suite.PredNotEquals, "neo", true},
		{"not equals same", "name", suite.PredNotEquals, "morpheus", false},
		{"not exists", "token", suite.PredNotExists, nil, true},
		{"not exists present", "id", suite.PredNotExists, nil, false},
		{"greater than", "age", suite.PredGreaterThan, 25, true},
		{"less than", "age", suite.PredLessThan, 25, false},
		{"greater than non numeric", "name", suite.PredGreaterThan, 1, false},
		{"length equals array", "tags", suite.PredLengthEquals, 2, true},
		{"length equals string", "name", suite.PredLengthEquals, 8, true},
		{"length of number", "age", suite.PredLengthGreaterThan, 0, false},
		{"contains substring", "job", suite.PredContains, "zion", true},
		{"contains array item", "tags", suite.PredContains, "b", true},
		{"contains missing item", "tags", suite.PredContains, "c", false},
		{"contains object key", "meta", suite.PredContains, "k", true},
		{"matches", "createdAt", suite.PredMatches, `^\d{4}-\d{2}-\d{2}T`, true},
		{"matches slashes", "id", suite.PredMatches, `/^\d+$/`, true},
		{"matches invalid", "id", suite.PredMatches, `([`, false},
		{"type string", "id", suite.PredType, "string", true},
		{"type number", "age", suite.PredType, "number", true},
		{"type boolean", "active", suite.PredType, "boolean", true},
		{"type array", "tags", suite.PredType, "array", true},
		{"type object", "meta", suite.PredType, "object", true},
		{"type mismatch", "age", suite.PredType, "string", false},
		{"missing path", "nope", suite.PredEquals, "x", false},
		{"unknown predicate", "id", suite.Predicate("isPresent"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(suite.Assertion{Path: tt.path, Predicate: tt.predicate, Value: tt.value})
			assert.Equal(t, tt.passed, result.Passed, "Message: %s", result.Message)
			if !tt.passed {
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestEvaluator_LengthShowsComputedLength(t *testing.T) {
	e := NewEvaluator(createResponse(200, usersPage, nil))

	result := e.Evaluate(suite.LengthGreaterThan("data", 5))

	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.Actual)
	assert.Equal(t, "expected length greater than 5, got 2", result.Message)
}

func TestEvaluator_MalformedBody(t *testing.T) {
	t.Run("html body", func(t *testing.T) {
		resp := createResponse(200, `<html>rate limited</html>`, map[string]string{"Content-Type": "text/html"})
		e := NewEvaluator(resp)

		assert.ErrorIs(t, e.BodyErr(), ErrMalformedBody)

		result := e.Evaluate(suite.Exists("token"))
		assert.False(t, result.Passed)
		assert.True(t, result.Malformed)
		assert.Equal(t, ErrMalformedBody.Error()+" (content type text/html)", result.Message)

		// status is still checked normally
		assert.True(t, e.CheckStatus(200).Passed)
	})

	t.Run("empty body", func(t *testing.T) {
		e := NewEvaluator(createResponse(204, ``, nil))

		assert.ErrorIs(t, e.BodyErr(), ErrEmptyBody)
		result := e.Evaluate(suite.Exists("id"))
		assert.False(t, result.Passed)
		assert.True(t, result.Malformed)

		result = e.Evaluate(suite.Assertion{Path: "error", Predicate: suite.PredNotExists})
		assert.True(t, result.Passed)
		assert.False(t, result.Malformed)
	})

	t.Run("json without content type", func(t *testing.T) {
		resp := createResponse(200, `{"token": "QpwL5tke4Pnpja7X4"}`, map[string]string{"Content-Type": "text/plain"})
		e := NewEvaluator(resp)

		require.NoError(t, e.BodyErr())
		assert.True(t, e.Evaluate(suite.Exists("token")).Passed)
	})
}

func TestEvaluator_ValuesFromSuiteFile(t *testing.T) {
	s, err := suite.Parse([]byte(`
name: structured values
cases:
  - name: ids
    method: GET
    url: /api/ids
    expectStatus: 200
    assertions:
      - path: ids
        predicate: equals
        value: [1, 2]
      - path: data
        predicate: equals
        value: {id: 2, tags: [a]}
      - path: pairs
        predicate: contains
        value: [2, 3]
      - path: users
        predicate: contains
        value: {id: 2}
      - path: ids
        predicate: notEquals
        value: [2, 1]
`))
	require.NoError(t, err)

	e := NewEvaluator(createResponse(200, `{
		"ids": [1, 2],
		"data": {"id": 2, "tags": ["a"]},
		"pairs": [[1, 2], [2, 3]],
		"users": [{"id": 1}, {"id": 2}]
	}`, nil))

	for _, a := range s.Cases[0].Assertions {
		result := e.Evaluate(a)
		assert.True(t, result.Passed, "%s %s: %s", a.Path, a.Predicate, result.Message)
	}

	result := e.Evaluate(suite.Equals("ids", []any{1, 3}))
	assert.False(t, result.Passed)
	assert.Equal(t, "expected [1 3], got [1 2]", result.Message)
}

func TestEvaluator_FieldNamedBody(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{"body": {"text": "hi"}, "id": 1}`, nil))

	assert.True(t, e.Evaluate(suite.Exists("body.id")).Passed)
	assert.True(t, e.Evaluate(suite.Exists("body.body.text")).Passed)
	assert.True(t, e.Evaluate(suite.Equals("body.body.text", "hi")).Passed)
	assert.False(t, e.Evaluate(suite.Exists("body.text")).Passed)
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"body":             "",
		"body.data.id":     "data.id",
		"body.body":        "body",
		"data[0].name":     "data.0.name",
		"[1].id":           "1.id",
		"items[0].tags[1]": "items.0.tags.1",
	}

	for in, want := range tests {
		assert.Equal(t, want, normalizePath(in), "path: %q", in)
	}
}
