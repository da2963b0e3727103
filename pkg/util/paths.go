package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePath cleans a relative file path and reports whether it is safe to
// use. Absolute paths, empty paths, and paths that escape the working
// directory after cleaning are rejected.
func SafeFilePath(path string) (string, bool) {
	if path == "" || strings.Contains(path, `\`) {
		return "", false
	}
	if filepath.IsAbs(path) {
		return "", false
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// SafeFilePathAllowAbsolute is SafeFilePath but permits absolute paths.
// Relative paths must still not escape the working directory.
func SafeFilePathAllowAbsolute(path string) (string, bool) {
	if path == "" || strings.Contains(path, `\`) {
		return "", false
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) {
		return clean, true
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}
