// Package env resolves template references in test case URLs, headers and
// request bodies.
//
// Supported forms:
//   - {{name}}: suite variable, falling back to the process environment
//   - {{$NAME}}: process environment variable
//   - {{uuid()}}: built-in function call, see package builtin
//
// Unresolved references are left verbatim and reported as warnings.
package env
