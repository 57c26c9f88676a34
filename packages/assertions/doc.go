// Package assertions evaluates test case expectations against a response.
//
// Supported checks:
//   - Status code equality (CheckStatus)
//   - Presence of a body path (exists, notExists)
//   - Value comparison (equals, notEquals, greaterThan, lessThan)
//   - Length checks on arrays, objects and strings (lengthGreaterThan, lengthEquals)
//   - Text and collection checks (contains, matches, type)
//
// Paths are gjson paths into the JSON body. Bracket indices are accepted,
// so "data[0].name" and "data.0.name" select the same value. A body that is
// not valid JSON never panics: every body predicate fails with Malformed set.
package assertions
