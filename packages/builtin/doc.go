// Package builtin provides the template functions available in suite files.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(): current time in RFC 3339
//   - date(layout): current UTC date, "2006-01-02" by default
//   - timestamp(), timestampMs(): current Unix time
//   - random(min, max): random integer in range
//   - randomString(length): random alphanumeric string
//   - randomEmail(): random address on the example.com domain
//
// Functions are invoked with the {{name(args)}} syntax in URLs and bodies.
package builtin
