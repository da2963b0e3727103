package report

import (
	"sort"

	"github.com/flightrec/flightrec/pkg/event"
	"github.com/flightrec/flightrec/pkg/recorder"
)

// SettingValue is one configured setting of an event type, paired with its
// effective value.
type SettingValue struct {
	Name  string
	Value string
}

// EventSettings is the subset of one event type's declared settings that are
// present in a recording's effective settings, in declaration order.
type EventSettings struct {
	Type     *event.Type
	Settings []SettingValue
}

// Project computes, for each event type, the declared settings that are
// configured on the recording. Event types are ordered ascending by name;
// within a type, settings keep the catalog's declaration order. Types with
// no configured settings are omitted entirely. Settings keys that reference
// unknown types or undeclared settings are ignored.
func Project(types []*event.Type, settings map[recorder.SettingKey]string) []EventSettings {
	sorted := make([]*event.Type, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var out []EventSettings
	for _, t := range sorted {
		var values []SettingValue
		for _, d := range t.Settings {
			key := recorder.SettingKey{EventType: t.Name, Setting: d.Name}
			if v, ok := settings[key]; ok {
				values = append(values, SettingValue{Name: d.Name, Value: v})
			}
		}
		if len(values) > 0 {
			out = append(out, EventSettings{Type: t, Settings: values})
		}
	}
	return out
}
