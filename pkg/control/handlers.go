package control

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/flightrec/flightrec/pkg/preset"
	"github.com/flightrec/flightrec/pkg/recorder"
	"github.com/flightrec/flightrec/pkg/report"
	"github.com/flightrec/flightrec/pkg/store"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{Error: errCode, Message: message})
}

// writeRecordingError maps recorder errors onto HTTP statuses.
func writeRecordingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recorder.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, recorder.ErrClosed),
		errors.Is(err, recorder.ErrNotRunning),
		errors.Is(err, recorder.ErrAlreadyAlive):
		writeError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Uptime: s.Uptime()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Version:        s.version,
		Uptime:         s.Uptime(),
		RecordingCount: len(s.recorder.Recordings()),
		EventTypeCount: s.recorder.Catalog().Len(),
	})
}

// handleCheck handles GET /check. The report is rendered in-process and
// returned as plain text; an unknown recording yields a 404 with no report
// output at all.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := report.Options{
		Recording: q.Get("recording"),
		Verbose:   q.Get("verbose") == "true" || q.Get("verbose") == "1",
	}

	text, err := report.Check(s.recorder, s.recorder.Catalog(), opts)
	if err != nil {
		if errors.Is(err, recorder.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "check_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func recordingInfo(r *recorder.Recording) RecordingInfo {
	info := RecordingInfo{
		ID:        r.ID(),
		Name:      r.Name(),
		State:     string(r.State()),
		MaxSize:   r.MaxSize(),
		SizeBytes: r.Size(),
	}
	if d, ok := r.Duration(); ok {
		info.Duration = d.String()
	}
	if age, ok := r.MaxAge(); ok {
		info.MaxAge = age.String()
	}
	if start := r.StartTime(); !start.IsZero() {
		info.StartTime = &start
	}
	return info
}

func (s *Server) handleListRecordings(w http.ResponseWriter, r *http.Request) {
	recordings := s.recorder.Recordings()
	infos := make([]RecordingInfo, len(recordings))
	for i, rec := range recordings {
		infos[i] = recordingInfo(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recordings": infos,
		"count":      len(infos),
	})
}

func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	var req StartRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON in request body")
		return
	}

	parse := func(name, value string) (time.Duration, bool) {
		if value == "" {
			return 0, true
		}
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid_"+name, "invalid "+name+": "+value)
			return 0, false
		}
		return d, true
	}

	duration, ok := parse("duration", req.Duration)
	if !ok {
		return
	}
	maxAge, ok := parse("maxage", req.MaxAge)
	if !ok {
		return
	}
	delay, ok := parse("delay", req.Delay)
	if !ok {
		return
	}
	if req.MaxSize < 0 {
		writeError(w, http.StatusBadRequest, "invalid_maxsize", "maxSize must be non-negative")
		return
	}

	var settings *preset.Preset
	if req.Preset != "" {
		p, err := preset.Resolve(req.Preset)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_preset", err.Error())
			return
		}
		settings = p
	}

	rec := s.recorder.NewRecording(req.Name)
	if duration > 0 {
		_ = rec.SetDuration(duration)
	}
	if req.MaxSize > 0 {
		_ = rec.SetMaxSize(req.MaxSize)
	}
	if maxAge > 0 {
		_ = rec.SetMaxAge(maxAge)
	}
	if settings != nil {
		_ = settings.Apply(rec)
	}

	var err error
	if delay > 0 {
		err = rec.ScheduleStart(delay)
	} else {
		err = rec.Start()
	}
	if err != nil {
		s.recorder.Remove(rec)
		writeRecordingError(w, err)
		return
	}

	s.metrics.recordings.IncLabel("started")
	s.log.Info("started recording", "id", rec.ID(), "name", rec.Name())
	writeJSON(w, http.StatusCreated, recordingInfo(rec))
}

func (s *Server) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recorder.FindRecording(r.PathValue("id"))
	if err != nil {
		writeRecordingError(w, err)
		return
	}
	if err := rec.Stop(); err != nil {
		writeRecordingError(w, err)
		return
	}
	s.metrics.recordings.IncLabel("stopped")
	s.log.Info("stopped recording", "id", rec.ID(), "name", rec.Name())
	writeJSON(w, http.StatusOK, recordingInfo(rec))
}

func (s *Server) handleCloseRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recorder.FindRecording(r.PathValue("id"))
	if err != nil {
		writeRecordingError(w, err)
		return
	}
	s.recorder.Remove(rec)
	s.metrics.recordings.IncLabel("closed")
	s.log.Info("closed recording", "id", rec.ID(), "name", rec.Name())
	writeJSON(w, http.StatusOK, recordingInfo(rec))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recorder.FindRecording(r.PathValue("id"))
	if err != nil {
		writeRecordingError(w, err)
		return
	}

	events := rec.Events()
	if src := r.URL.Query().Get("filter"); src != "" {
		f, err := recorder.CompileFilter(src)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
			return
		}
		events = recorder.FilterEvents(events, f)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

func (s *Server) handleDumpRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recorder.FindRecording(r.PathValue("id"))
	if err != nil {
		writeRecordingError(w, err)
		return
	}

	var req DumpRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON in request body")
			return
		}
	}

	events := rec.Events()
	if req.Filter != "" {
		f, err := recorder.CompileFilter(req.Filter)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
			return
		}
		events = recorder.FilterEvents(events, f)
	}

	path, err := store.WriteDump(rec.ID(), rec.Name(), events, req.Path)
	if err != nil {
		s.log.Error("dump failed", "id", rec.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, "dump_failed", "could not write dump file")
		return
	}

	s.metrics.dumps.Inc()
	s.log.Info("dumped recording", "id", rec.ID(), "path", path, "events", len(events))
	writeJSON(w, http.StatusOK, DumpResponse{Path: path, EventCount: len(events)})
}

func (s *Server) handleListEventTypes(w http.ResponseWriter, r *http.Request) {
	types := s.recorder.Catalog().Types()
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })

	writeJSON(w, http.StatusOK, map[string]any{
		"types": types,
		"count": len(types),
	})
}
