// Package config handles configuration loading for reqsuite.
//
// Values come from, in increasing precedence:
//   - defaults declared on the Config struct tags
//   - an optional reqsuite.yaml, reqsuite.json or .reqsuite.yaml file
//   - REQRES_* environment variables
//   - command line flags, applied with Merge
package config
