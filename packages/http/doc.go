// Package http provides the HTTP client used to issue test case requests.
//
// It wraps the standard library's http package with:
//   - A per-request deadline carried on the context
//   - Redirect, proxy and TLS options
//   - JSON request bodies
//   - Fully read responses with timing
package http
