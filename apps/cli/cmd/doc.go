// Package cmd implements the reqsuite CLI commands using Cobra.
//
// Available commands:
//   - run: Execute a suite against the service and report the results
//   - validate: Check a suite file without executing it
//   - list: Display the cases of a suite as a table
//   - init: Write the built-in suite and a config file for editing
//   - version: Show reqsuite version information
//
// Configuration comes from an optional config file and REQRES_*
// environment variables; flags override both.
package cmd
