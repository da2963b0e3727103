package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flightrec/flightrec/pkg/event"
	"github.com/flightrec/flightrec/pkg/util"
)

// Dump is the JSON document written for a dumped recording.
type Dump struct {
	RecordingID   int64         `json:"recordingId"`
	RecordingName string        `json:"recordingName"`
	DumpedAt      time.Time     `json:"dumpedAt"`
	EventCount    int           `json:"eventCount"`
	Events        []event.Event `json:"events"`
}

// DumpFilename returns the default dump file name for a recording,
// flightrec-<id>-<timestamp>.json.
func DumpFilename(recordingID int64, at time.Time) string {
	return fmt.Sprintf("flightrec-%d-%s.json", recordingID, at.UTC().Format("20060102T150405Z"))
}

// WriteDump writes the events of a recording to path as indented JSON,
// creating parent directories as needed. An empty path defaults to
// DumpFilename under the data directory. The written path is returned.
func WriteDump(recordingID int64, recordingName string, events []event.Event, path string) (string, error) {
	now := time.Now()
	if path == "" {
		path = filepath.Join(DefaultDataDir(), DumpFilename(recordingID, now))
	} else {
		clean, ok := util.SafeFilePathAllowAbsolute(path)
		if !ok {
			return "", fmt.Errorf("unsafe dump path: %s", path)
		}
		path = clean
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("create dump directory: %w", err)
	}

	if events == nil {
		events = []event.Event{}
	}
	doc := Dump{
		RecordingID:   recordingID,
		RecordingName: recordingName,
		DumpedAt:      now,
		EventCount:    len(events),
		Events:        events,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("create dump file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write dump: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close dump: %w", err)
	}
	return path, nil
}

// ReadDump reads a dump file written by WriteDump.
func ReadDump(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	var doc Dump
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dump: %w", err)
	}
	return &doc, nil
}
