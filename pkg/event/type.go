// Package event provides the event-type catalog for the recorder.
//
// An event type declares a named, labelled kind of event together with the
// settings that can be configured for it (enabled, period, threshold, and so
// on). Recordings reference catalog types by name; the catalog itself never
// stores captured data.
package event

import "time"

// SettingDescriptor declares one configurable parameter of an event type.
// Descriptors keep their declaration order; consumers that render settings
// must preserve it.
type SettingDescriptor struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Type describes a kind of event the recorder can capture.
type Type struct {
	Name        string              `json:"name"`
	Label       string              `json:"label"`
	Description string              `json:"description,omitempty"`
	Settings    []SettingDescriptor `json:"settings,omitempty"`
}

// Setting returns the descriptor with the given name, or false if the type
// does not declare it.
func (t *Type) Setting(name string) (SettingDescriptor, bool) {
	for _, d := range t.Settings {
		if d.Name == name {
			return d, true
		}
	}
	return SettingDescriptor{}, false
}

// Event is a single captured occurrence of an event type.
type Event struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Time   time.Time      `json:"time"`
	Fields map[string]any `json:"fields,omitempty"`
}
