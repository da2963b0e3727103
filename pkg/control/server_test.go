package control

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrec/flightrec/pkg/event"
	"github.com/flightrec/flightrec/pkg/recorder"
)

func newTestServer(t *testing.T) (*Server, *recorder.Recorder) {
	t.Helper()
	cat := event.NewCatalog()
	require.NoError(t, event.RegisterBuiltins(cat))
	rc := recorder.New(cat)
	return NewServer(rc, "127.0.0.1:0", WithVersion("test")), rc
}

func doRequest(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthAndStatus(t *testing.T) {
	s, rc := newTestServer(t)
	rc.NewRecording("r1")

	w := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)

	w = doRequest(t, s, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "test", status.Version)
	assert.Equal(t, 1, status.RecordingCount)
	assert.Equal(t, len(event.BuiltinTypes()), status.EventTypeCount)
}

func TestStartRecording(t *testing.T) {
	t.Run("with preset and limits", func(t *testing.T) {
		s, rc := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/recordings", StartRecordingRequest{
			Name:     "backend",
			Duration: "60s",
			MaxSize:  250 * 1024 * 1024,
			Preset:   "default",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var info RecordingInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, int64(1), info.ID)
		assert.Equal(t, "backend", info.Name)
		assert.Equal(t, string(recorder.StateRunning), info.State)
		assert.Equal(t, "1m0s", info.Duration)

		rec, err := rc.FindRecording("backend")
		require.NoError(t, err)
		assert.True(t, rec.Enabled("runtime.GC"))
	})

	t.Run("delayed start", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/recordings", StartRecordingRequest{
			Name:  "later",
			Delay: "1h",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var info RecordingInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, string(recorder.StateDelayed), info.State)
	})

	t.Run("invalid duration", func(t *testing.T) {
		s, rc := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/recordings", StartRecordingRequest{Duration: "soon"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, rc.Recordings())
	})

	t.Run("unknown preset", func(t *testing.T) {
		s, rc := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/recordings", StartRecordingRequest{Preset: "nope"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, rc.Recordings())
	})
}

func TestCheckEndpoint(t *testing.T) {
	t.Run("no recordings", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doRequest(t, s, http.MethodGet, "/check", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Equal(t, "No available recordings.\n\nUse 'flightrec start' to start a recording.\n", w.Body.String())
	})

	t.Run("no recordings verbose is empty", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doRequest(t, s, http.MethodGet, "/check?verbose=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", w.Body.String())
	})

	t.Run("named recording", func(t *testing.T) {
		s, rc := newTestServer(t)
		r := rc.NewRecording("backend")
		require.NoError(t, r.Start())

		w := doRequest(t, s, http.MethodGet, "/check?recording=backend", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Recording 1: name=backend (running)\n", w.Body.String())
	})

	t.Run("unknown recording is 404", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doRequest(t, s, http.MethodGet, "/check?recording=ghost", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "not_found", errResp.Error)
	})
}

func TestStopAndClose(t *testing.T) {
	s, rc := newTestServer(t)
	r := rc.NewRecording("r")
	require.NoError(t, r.Start())

	w := doRequest(t, s, http.MethodPost, "/recordings/r/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recorder.StateStopped, r.State())

	// Stopping again conflicts.
	w = doRequest(t, s, http.MethodPost, "/recordings/r/stop", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, s, http.MethodDelete, "/recordings/r", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recorder.StateClosed, r.State())

	// Closed recordings are detached from the recorder.
	w = doRequest(t, s, http.MethodPost, "/recordings/r/stop", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEvents(t *testing.T) {
	s, rc := newTestServer(t)
	r := rc.NewRecording("r")
	require.NoError(t, r.EnableEvent("runtime.GC"))
	require.NoError(t, r.EnableEvent("app.Log"))
	require.NoError(t, r.Start())

	rc.Emit(event.New("runtime.GC", map[string]any{"pauseMillis": 3}))
	rc.Emit(event.New("app.Log", map[string]any{"level": "warn"}))

	t.Run("all", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/recordings/r/events", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var result struct {
			Events []event.Event `json:"events"`
			Count  int           `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 2, result.Count)
	})

	t.Run("filtered", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/recordings/r/events?filter="+`type+%3D%3D+%22app.Log%22`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var result struct {
			Events []event.Event `json:"events"`
			Count  int           `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "app.Log", result.Events[0].Type)
	})

	t.Run("bad filter", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/recordings/r/events?filter=type+%3D%3D", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDumpEndpoint(t *testing.T) {
	s, rc := newTestServer(t)
	r := rc.NewRecording("r")
	require.NoError(t, r.EnableEvent("runtime.GC"))
	require.NoError(t, r.Start())
	rc.Emit(event.New("runtime.GC", nil))

	path := filepath.Join(t.TempDir(), "dump.json")
	w := doRequest(t, s, http.MethodPost, "/recordings/r/dump", DumpRequest{Path: path})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp DumpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, path, resp.Path)
	assert.Equal(t, 1, resp.EventCount)
}

func TestMetricsEndpoint(t *testing.T) {
	s, rc := newTestServer(t)
	r := rc.NewRecording("m")
	require.NoError(t, r.Start())

	w := doRequest(t, s, http.MethodPost, "/recordings", StartRecordingRequest{Name: "counted"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	text := w.Body.String()
	assert.Contains(t, text, `flightrec_recording_actions_total{action="started"} 1`)
	assert.Contains(t, text, `flightrec_recordings{state="running"} 2`)
	assert.Contains(t, text, "# TYPE flightrec_buffer_bytes gauge")
}

func TestListEventTypesSorted(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/events/types", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Types []*event.Type `json:"types"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, len(event.BuiltinTypes()), result.Count)
	for i := 1; i < len(result.Types); i++ {
		assert.Less(t, result.Types[i-1].Name, result.Types[i].Name)
	}
}
