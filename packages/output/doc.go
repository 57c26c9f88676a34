// Package output provides formatters for displaying run reports.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//   - XLSX: Excel workbook, one sheet per run
//
// Console output is written as each report arrives. The other formats
// accumulate reports and write them on Flush.
package output
