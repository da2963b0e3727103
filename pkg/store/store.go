// Package store resolves flightrec's on-disk locations and writes recording
// dumps.
//
// Directory resolution follows the XDG Base Directory Specification, with
// platform-appropriate fallbacks on macOS and Windows. Dumps are plain JSON
// files so they can be inspected and post-processed with standard tooling.
package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// Common errors shared across packages.
var (
	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("store is read-only")
)

// DefaultDataDir returns the default data directory following the XDG spec.
// Dump files land here unless the caller names an explicit path.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "flightrec")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".flightrec", "data")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "flightrec")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "flightrec")
		}
		return filepath.Join(home, "AppData", "Local", "flightrec")
	}
	return filepath.Join(home, ".local", "share", "flightrec")
}

// DefaultConfigDir returns the default config directory following the XDG
// spec. Preset files can live here.
func DefaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "flightrec")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".flightrec", "config")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Preferences", "flightrec")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "flightrec")
		}
		return filepath.Join(home, "AppData", "Roaming", "flightrec")
	}
	return filepath.Join(home, ".config", "flightrec")
}
