package cli

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flightrec/flightrec/pkg/control"
)

func TestCheck_PassesQueryAndReturnsRawText(t *testing.T) {
	t.Parallel()

	const report = "Recording 1: name=backend (running)\n"
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/check" {
			t.Errorf("called %q, want /check", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, report)
	}))
	defer ts.Close()

	client := NewControlClient(ts.URL)
	text, err := client.Check("backend", true)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if text != report {
		t.Errorf("Check() = %q, want %q", text, report)
	}
	if gotQuery != "recording=backend&verbose=true" {
		t.Errorf("query = %q, want recording=backend&verbose=true", gotQuery)
	}
}

func TestCheck_NoArgsSendsNoQuery(t *testing.T) {
	t.Parallel()

	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
	}))
	defer ts.Close()

	client := NewControlClient(ts.URL)
	if _, err := client.Check("", false); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want empty", gotQuery)
	}
}

func TestCheck_NotFoundSurfacesAPIError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(control.ErrorResponse{
			Error:   "not_found",
			Message: "recording not found: ghost",
		})
	}))
	defer ts.Close()

	client := NewControlClient(ts.URL)
	_, err := client.Check("ghost", false)
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.IsNotFound() {
		t.Errorf("IsNotFound() = false, want true")
	}
	if apiErr.ErrorCode != "not_found" {
		t.Errorf("ErrorCode = %q, want not_found", apiErr.ErrorCode)
	}
}

func TestStartRecording_PostsJSONAndDecodesCreated(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/recordings" {
			t.Errorf("called %s %s, want POST /recordings", r.Method, r.URL.Path)
		}
		var req control.StartRecordingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Name != "backend" || req.Duration != "10m" {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(control.RecordingInfo{ID: 1, Name: req.Name, State: "RUNNING"})
	}))
	defer ts.Close()

	client := NewControlClient(ts.URL)
	info, err := client.StartRecording(&control.StartRecordingRequest{Name: "backend", Duration: "10m"})
	if err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	if info.ID != 1 || info.State != "RUNNING" {
		t.Errorf("info = %+v", info)
	}
}

func TestListEvents_EncodesFilter(t *testing.T) {
	t.Parallel()

	var gotFilter string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"events":[],"count":0}`)
	}))
	defer ts.Close()

	client := NewControlClient(ts.URL)
	const filter = `type == "runtime.GC" && fields.pauseMillis > 10`
	if _, err := client.ListEvents("backend", filter); err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if gotFilter != filter {
		t.Errorf("filter = %q, want %q", gotFilter, filter)
	}
}

func TestParseError_FallsBackOnNonJSONBody(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	}))
	defer ts.Close()

	client := NewControlClient(ts.URL)
	err := client.Health()
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.ErrorCode != "unknown_error" {
		t.Errorf("ErrorCode = %q, want unknown_error", apiErr.ErrorCode)
	}
}

func TestConnectionError(t *testing.T) {
	t.Parallel()

	client := NewControlClient("http://127.0.0.1:1")
	err := client.Health()
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.ErrorCode != "connection_error" {
		t.Errorf("ErrorCode = %q, want connection_error", apiErr.ErrorCode)
	}
}
