// Package util provides shared helpers for report formatting, safe
// file-path validation, and value truncation used across flightrec packages.
//
//   - FormatTimespan / FormatBytes — render durations and sizes for reports
//   - SafeFilePath / SafeFilePathAllowAbsolute — reject path-traversal attempts
//   - Truncate — cap long values for safe logging and table output
package util
