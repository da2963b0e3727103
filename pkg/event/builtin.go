package event

// Built-in event types captured by the bundled agent. Applications embedding
// the recorder register their own types alongside these.

// BuiltinTypes returns the event types the agent knows how to emit.
func BuiltinTypes() []*Type {
	return []*Type{
		{
			Name:        "runtime.GC",
			Label:       "Garbage Collection",
			Description: "A completed garbage collection cycle",
			Settings: []SettingDescriptor{
				{Name: "enabled", Default: "false"},
				{Name: "threshold", Default: "0ms", Description: "Record only cycles with a longer pause"},
				{Name: "stackTrace", Default: "false"},
			},
		},
		{
			Name:        "runtime.Heap",
			Label:       "Heap Statistics",
			Description: "Periodic heap usage sample",
			Settings: []SettingDescriptor{
				{Name: "enabled", Default: "false"},
				{Name: "period", Default: "10s"},
			},
		},
		{
			Name:        "runtime.Goroutines",
			Label:       "Goroutine Count",
			Description: "Periodic goroutine count sample",
			Settings: []SettingDescriptor{
				{Name: "enabled", Default: "false"},
				{Name: "period", Default: "10s"},
			},
		},
		{
			Name:        "os.CPULoad",
			Label:       "CPU Load",
			Description: "Periodic process CPU usage sample",
			Settings: []SettingDescriptor{
				{Name: "enabled", Default: "false"},
				{Name: "period", Default: "10s"},
			},
		},
		{
			Name:        "app.Log",
			Label:       "Application Log Record",
			Description: "Log records forwarded into the recorder",
			Settings: []SettingDescriptor{
				{Name: "enabled", Default: "false"},
				{Name: "level", Default: "info", Description: "Minimum level to record"},
			},
		},
	}
}

// RegisterBuiltins registers all built-in event types on the catalog.
func RegisterBuiltins(c *Catalog) error {
	for _, t := range BuiltinTypes() {
		if err := c.Register(t); err != nil {
			return err
		}
	}
	return nil
}
