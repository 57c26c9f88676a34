package assertions

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/reqsuite/packages/http"
	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyBody is reported when a body predicate runs against a response without a body.
	ErrEmptyBody = errors.New("response has no body")
	// ErrMalformedBody is reported when the response body is not valid JSON.
	ErrMalformedBody = errors.New("response body is not valid JSON")
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

type Result struct {
	Passed   bool
	Message  string
	Expected any
	Actual   any
	Subject  string
	Operator string
	// Malformed is set when the check could not run because the body is unusable.
	Malformed bool
}

type Evaluator struct {
	response *http.Response
	bodyJSON gjson.Result
	bodyErr  error
}

func NewEvaluator(resp *http.Response) *Evaluator {
	e := &Evaluator{response: resp}

	switch {
	case !resp.HasBody():
		e.bodyErr = ErrEmptyBody
	case !gjson.ValidBytes(resp.Body):
		e.bodyErr = ErrMalformedBody
	default:
		e.bodyJSON = gjson.ParseBytes(resp.Body)
	}

	return e
}

// BodyErr returns why the body cannot be queried, or nil for a JSON body.
func (e *Evaluator) BodyErr() error {
	return e.bodyErr
}

// CheckStatus compares the observed status code with the expected one.
func (e *Evaluator) CheckStatus(expected int) *Result {
	result := &Result{
		Subject:  "status",
		Operator: suite.PredEquals.String(),
		Expected: expected,
		Actual:   e.response.StatusCode,
		Passed:   e.response.StatusCode == expected,
	}
	if !result.Passed {
		result.Message = fmt.Sprintf("expected status %d, got %d", expected, e.response.StatusCode)
	}
	return result
}

func (e *Evaluator) Evaluate(a suite.Assertion) *Result {
	result := &Result{
		Subject:  subjectOf(a.Path),
		Operator: a.Predicate.String(),
		Expected: a.Value,
	}

	// Nothing exists in an empty body.
	if e.bodyErr == ErrEmptyBody && a.Predicate == suite.PredNotExists {
		result.Passed = true
		return result
	}

	if e.bodyErr != nil {
		result.Malformed = true
		result.Actual = truncate(e.response.BodyString(), 80)
		result.Message = e.bodyErr.Error()
		if e.bodyErr == ErrMalformedBody && !e.response.IsJSON() {
			if ct := e.response.ContentType(); ct != "" {
				result.Message += " (content type " + ct + ")"
			}
		}
		return result
	}

	actual, found := e.lookup(a.Path)
	result.Actual = actual

	passed, msg := e.compare(actual, found, a.Predicate, a.Value)
	result.Passed = passed
	result.Message = msg

	// For length predicates, show the computed length as the actual value
	if a.Predicate == suite.PredLengthGreaterThan || a.Predicate == suite.PredLengthEquals {
		result.Actual = computeLength(actual)
	}

	return result
}

func (e *Evaluator) lookup(path string) (any, bool) {
	path = normalizePath(path)
	if path == "" {
		return e.bodyJSON.Value(), true
	}

	res := e.bodyJSON.Get(path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// normalizePath converts "body.data[0].name" into the gjson path "data.0.name".
// A bare "body" is the whole document, so a top-level field named body is
// addressed as "body.body".
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "body" {
		return ""
	}
	path = strings.TrimPrefix(path, "body.")
	path = bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(path, ".")
}

func subjectOf(path string) string {
	if p := normalizePath(path); p != "" {
		return "body." + p
	}
	return "body"
}

func (e *Evaluator) compare(actual any, found bool, p suite.Predicate, expected any) (bool, string) {
	switch p {
	case suite.PredExists:
		if !found {
			return false, "expected to exist"
		}
		return true, ""
	case suite.PredNotExists:
		if found {
			return false, "expected not to exist"
		}
		return true, ""
	}

	if !found {
		return false, "path not found in response body"
	}

	switch p {
	case suite.PredEquals:
		return equals(actual, expected)
	case suite.PredNotEquals:
		if passed, _ := equals(actual, expected); passed {
			return false, fmt.Sprintf("expected not to equal %v", expected)
		}
		return true, ""
	case suite.PredGreaterThan:
		return compareNumeric(actual, expected, ">")
	case suite.PredLessThan:
		return compareNumeric(actual, expected, "<")
	case suite.PredLengthGreaterThan:
		return lengthCompare(actual, expected, ">")
	case suite.PredLengthEquals:
		return lengthCompare(actual, expected, "==")
	case suite.PredContains:
		return contains(actual, expected)
	case suite.PredMatches:
		return matches(actual, expected)
	case suite.PredType:
		return typeCheck(actual, expected)
	default:
		return false, fmt.Sprintf("unknown predicate: %q", p)
	}
}

func equals(actual, expected any) (bool, string) {
	if expected != nil && !isScalar(expected) {
		expected = jsonValue(expected)
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk && actualNum == expectedNum {
		return true, ""
	}

	if isScalar(actual) && isScalar(expected) && fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func compareNumeric(actual, expected any, op string) (bool, string) {
	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)

	if !aOk || !eOk {
		return false, fmt.Sprintf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
	}

	var passed bool
	switch op {
	case ">":
		passed = actualNum > expectedNum
	case "<":
		passed = actualNum < expectedNum
	}

	if passed {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v %s %v", actual, op, expected)
}

// computeLength returns the length of a value, or -1 if length cannot be computed
func computeLength(actual any) int {
	switch v := actual.(type) {
	case string:
		return len(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return -1
	}
}

func lengthCompare(actual, expected any, op string) (bool, string) {
	want, ok := toInt(expected)
	if !ok {
		return false, fmt.Sprintf("expected length must be a number, got %v", expected)
	}

	got := computeLength(actual)
	if got == -1 {
		return false, fmt.Sprintf("cannot get length of %s", typeName(actual))
	}

	switch op {
	case ">":
		if got > want {
			return true, ""
		}
		return false, fmt.Sprintf("expected length greater than %d, got %d", want, got)
	default:
		if got == want {
			return true, ""
		}
		return false, fmt.Sprintf("expected length %d, got %d", want, got)
	}
}

func contains(actual, expected any) (bool, string) {
	if arr, ok := actual.([]any); ok {
		for _, item := range arr {
			if passed, _ := equals(item, expected); passed {
				return true, ""
			}
		}
		return false, fmt.Sprintf("expected array to include %v", expected)
	}

	if obj, ok := actual.(map[string]any); ok {
		if _, has := obj[fmt.Sprintf("%v", expected)]; has {
			return true, ""
		}
		return false, fmt.Sprintf("expected object to have key %v", expected)
	}

	if strings.Contains(fmt.Sprintf("%v", actual), fmt.Sprintf("%v", expected)) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to contain '%v'", actual, expected)
}

func matches(actual, expected any) (bool, string) {
	pattern := strings.TrimSuffix(strings.TrimPrefix(fmt.Sprintf("%v", expected), "/"), "/")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf("invalid regex pattern: %v", err)
	}

	if re.MatchString(fmt.Sprintf("%v", actual)) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to match /%v/", actual, pattern)
}

func typeCheck(actual, expected any) (bool, string) {
	want := fmt.Sprintf("%v", expected)
	got := typeName(actual)
	if got == want {
		return true, ""
	}
	return false, fmt.Sprintf("expected type %s, got %s", want, got)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return reflect.TypeOf(v).String()
	}
}

// jsonValue converts v to the types gjson produces, so values decoded from
// YAML (int, map[string]any) compare equal to the same JSON body value.
func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	return gjson.ParseBytes(data).Value()
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, float64, float32, int, int64, int32:
		return true
	default:
		return false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
