// Package preset provides named event-settings profiles.
//
// A preset is a YAML document mapping event type names to setting values. It
// is applied onto a recording's effective settings when the recording is
// started. Two presets ship built in: "default" (low overhead, safe for
// continuous use) and "profile" (more detail, more overhead).
package preset

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/flightrec/flightrec/pkg/recorder"
)

//go:embed presets/*.yaml
var builtinFS embed.FS

// ErrUnknown is returned when a built-in preset name does not exist.
var ErrUnknown = errors.New("unknown preset")

// Preset is a named collection of event settings.
type Preset struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Settings maps event type name to setting name to value. Types or
	// settings not declared in the catalog are applied anyway; reporting
	// ignores them.
	Settings map[string]map[string]string `yaml:"settings"`
}

// Parse decodes a preset from YAML.
func Parse(data []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	if p.Name == "" {
		return nil, errors.New("preset has no name")
	}
	if len(p.Settings) == 0 {
		return nil, fmt.Errorf("preset %s has no settings", p.Name)
	}
	return &p, nil
}

// Load reads a preset from a YAML file.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data)
}

// Builtin returns an embedded preset by name.
func Builtin(name string) (*Preset, error) {
	data, err := builtinFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return Parse(data)
}

// BuiltinNames returns the names of the embedded presets, sorted.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		names = append(names, name[:len(name)-len(".yaml")])
	}
	sort.Strings(names)
	return names
}

// Resolve loads a preset by built-in name or, failing that, as a file path.
func Resolve(nameOrPath string) (*Preset, error) {
	p, err := Builtin(nameOrPath)
	if err == nil {
		return p, nil
	}
	if _, statErr := os.Stat(nameOrPath); statErr == nil {
		return Load(nameOrPath)
	}
	return nil, err
}

// SettingKeys flattens the preset into recorder setting keys.
func (p *Preset) SettingKeys() map[recorder.SettingKey]string {
	out := make(map[recorder.SettingKey]string)
	for typeName, settings := range p.Settings {
		for name, value := range settings {
			out[recorder.SettingKey{EventType: typeName, Setting: name}] = value
		}
	}
	return out
}

// Apply merges the preset into the recording's effective settings.
func (p *Preset) Apply(r *recorder.Recording) error {
	return r.ApplySettings(p.SettingKeys())
}
