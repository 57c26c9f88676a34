// Package suite defines the declarative test case model used by reqsuite.
//
// A Suite is an ordered list of TestCase values. Each case describes one
// HTTP request (method, URL, optional JSON body) together with the status
// code it expects and a list of predicates evaluated against the response
// body. Cases are plain data: they are built once when a suite is loaded
// and never mutated by the runner.
//
// Suites come from two places:
//   - Default returns the built-in ReqRes suite
//   - LoadFile decodes a YAML suite file
//
// Validate checks a suite before it is run and reports every problem at once.
package suite
