package suite

// Predicate names a check applied to the value found at an assertion path.
type Predicate string

const (
	PredExists            Predicate = "exists"
	PredNotExists         Predicate = "notExists"
	PredEquals            Predicate = "equals"
	PredNotEquals         Predicate = "notEquals"
	PredLengthGreaterThan Predicate = "lengthGreaterThan"
	PredLengthEquals      Predicate = "lengthEquals"
	PredGreaterThan       Predicate = "greaterThan"
	PredLessThan          Predicate = "lessThan"
	PredContains          Predicate = "contains"
	PredMatches           Predicate = "matches"
	PredType              Predicate = "type"
)

var knownPredicates = map[Predicate]bool{
	PredExists:            true,
	PredNotExists:         true,
	PredEquals:            true,
	PredNotEquals:         true,
	PredLengthGreaterThan: true,
	PredLengthEquals:      true,
	PredGreaterThan:       true,
	PredLessThan:          true,
	PredContains:          true,
	PredMatches:           true,
	PredType:              true,
}

// Valid reports whether p is a predicate the evaluator understands.
func (p Predicate) Valid() bool {
	return knownPredicates[p]
}

// NeedsValue reports whether the predicate compares against Assertion.Value.
func (p Predicate) NeedsValue() bool {
	switch p {
	case PredExists, PredNotExists:
		return false
	default:
		return true
	}
}

func (p Predicate) String() string {
	return string(p)
}

// Exists asserts that path is present in the response body.
func Exists(path string) Assertion {
	return Assertion{Path: path, Predicate: PredExists}
}

// Equals asserts that the value at path equals v.
func Equals(path string, v any) Assertion {
	return Assertion{Path: path, Predicate: PredEquals, Value: v}
}

// LengthGreaterThan asserts that the array, object or string at path is longer than n.
func LengthGreaterThan(path string, n int) Assertion {
	return Assertion{Path: path, Predicate: PredLengthGreaterThan, Value: n}
}
