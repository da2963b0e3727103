package control

import "time"

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int    `json:"uptime"`
}

// StatusResponse is the GET /status body.
type StatusResponse struct {
	Version        string `json:"version"`
	Uptime         int    `json:"uptime"`
	RecordingCount int    `json:"recordingCount"`
	EventTypeCount int    `json:"eventTypeCount"`
}

// RecordingInfo is the JSON view of one recording.
type RecordingInfo struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	State     string     `json:"state"`
	Duration  string     `json:"duration,omitempty"`
	MaxSize   int64      `json:"maxSize,omitempty"`
	MaxAge    string     `json:"maxAge,omitempty"`
	SizeBytes int64      `json:"sizeBytes"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// StartRecordingRequest is the POST /recordings body.
type StartRecordingRequest struct {
	Name string `json:"name,omitempty"`

	// Duration, MaxAge, and Delay are Go duration strings ("60s", "2h").
	Duration string `json:"duration,omitempty"`
	MaxSize  int64  `json:"maxSize,omitempty"`
	MaxAge   string `json:"maxAge,omitempty"`
	Delay    string `json:"delay,omitempty"`

	// Preset is a built-in preset name or a path to a preset file on the
	// recorder's host.
	Preset string `json:"preset,omitempty"`
}

// DumpRequest is the POST /recordings/{id}/dump body.
type DumpRequest struct {
	// Path is the destination file on the recorder's host. Empty picks a
	// default name in the data directory.
	Path string `json:"path,omitempty"`

	// Filter is an optional event filter expression.
	Filter string `json:"filter,omitempty"`
}

// DumpResponse is the dump result.
type DumpResponse struct {
	Path       string `json:"path"`
	EventCount int    `json:"eventCount"`
}
