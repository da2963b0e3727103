package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/flightrec/flightrec/pkg/control"
	"github.com/flightrec/flightrec/pkg/event"
)

// ControlClient provides methods for communicating with the flightrec control API.
type ControlClient interface {
	// Health checks if the agent is running.
	Health() error
	// Status returns agent status information.
	Status() (*control.StatusResponse, error)
	// Check returns the recording status report as rendered by the agent.
	Check(recording string, verbose bool) (string, error)
	// ListRecordings returns all recordings known to the agent.
	ListRecordings() ([]control.RecordingInfo, error)
	// StartRecording creates and starts a new recording.
	StartRecording(req *control.StartRecordingRequest) (*control.RecordingInfo, error)
	// StopRecording stops a running recording by name or id.
	StopRecording(id string) (*control.RecordingInfo, error)
	// CloseRecording closes a recording and releases its buffer.
	CloseRecording(id string) (*control.RecordingInfo, error)
	// ListEvents returns the events held by a recording, optionally filtered.
	ListEvents(id, filter string) ([]event.Event, error)
	// DumpRecording writes a recording's events to a file on the agent host.
	DumpRecording(id string, req *control.DumpRequest) (*control.DumpResponse, error)
	// ListEventTypes returns the agent's event-type catalog.
	ListEventTypes() ([]*event.Type, error)
}

// APIError represents an error response from the control API.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether the error is a 404 from the control API.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// controlClient implements ControlClient using HTTP.
type controlClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a control client.
type ClientOption func(*controlClient)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *controlClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewControlClient creates a new control API client.
// The baseURL should be the control API base URL (e.g., "http://127.0.0.1:7091").
func NewControlClient(baseURL string, opts ...ClientOption) ControlClient {
	c := &controlClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *controlClient) Health() error {
	resp, err := c.get("/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

func (c *controlClient) Status() (*control.StatusResponse, error) {
	resp, err := c.get("/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var status control.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &status, nil
}

func (c *controlClient) Check(recording string, verbose bool) (string, error) {
	q := url.Values{}
	if recording != "" {
		q.Set("recording", recording)
	}
	if verbose {
		q.Set("verbose", "true")
	}
	path := "/check"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.get(path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return string(body), nil
}

func (c *controlClient) ListRecordings() ([]control.RecordingInfo, error) {
	resp, err := c.get("/recordings")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result struct {
		Recordings []control.RecordingInfo `json:"recordings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode recordings: %w", err)
	}
	return result.Recordings, nil
}

func (c *controlClient) StartRecording(req *control.StartRecordingRequest) (*control.RecordingInfo, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.post("/recordings", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}
	return decodeRecordingInfo(resp)
}

func (c *controlClient) StopRecording(id string) (*control.RecordingInfo, error) {
	resp, err := c.post("/recordings/"+url.PathEscape(id)+"/stop", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return decodeRecordingInfo(resp)
}

func (c *controlClient) CloseRecording(id string) (*control.RecordingInfo, error) {
	resp, err := c.delete("/recordings/" + url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return decodeRecordingInfo(resp)
}

func (c *controlClient) ListEvents(id, filter string) ([]event.Event, error) {
	path := "/recordings/" + url.PathEscape(id) + "/events"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}

	resp, err := c.get(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result struct {
		Events []event.Event `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return result.Events, nil
}

func (c *controlClient) DumpRecording(id string, req *control.DumpRequest) (*control.DumpResponse, error) {
	var body []byte
	if req != nil {
		var err error
		body, err = json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := c.post("/recordings/"+url.PathEscape(id)+"/dump", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result control.DumpResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode dump result: %w", err)
	}
	return &result, nil
}

func (c *controlClient) ListEventTypes() ([]*event.Type, error) {
	resp, err := c.get("/events/types")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result struct {
		Types []*event.Type `json:"types"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode event types: %w", err)
	}
	return result.Types, nil
}

func decodeRecordingInfo(resp *http.Response) (*control.RecordingInfo, error) {
	var info control.RecordingInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode recording: %w", err)
	}
	return &info, nil
}

// get performs an HTTP GET request.
func (c *controlClient) get(path string) (*http.Response, error) {
	return c.doRequest(http.MethodGet, path, nil)
}

// post performs an HTTP POST request.
func (c *controlClient) post(path string, body []byte) (*http.Response, error) {
	return c.doRequest(http.MethodPost, path, body)
}

// delete performs an HTTP DELETE request.
func (c *controlClient) delete(path string) (*http.Response, error) {
	return c.doRequest(http.MethodDelete, path, nil)
}

// doRequest performs an HTTP request.
func (c *controlClient) doRequest(method, path string, body []byte) (*http.Response, error) {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			StatusCode: 0,
			ErrorCode:  "connection_error",
			Message:    fmt.Sprintf("cannot connect to control API at %s: %v", c.baseURL, err),
		}
	}
	return resp, nil
}

// parseError parses an error response from the API.
func (c *controlClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  errResp.Error,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorCode:  "unknown_error",
		Message:    fmt.Sprintf("agent returned status %d: %s", resp.StatusCode, string(body)),
	}
}

// FormatConnectionError returns a user-friendly error message for connection failures.
func FormatConnectionError(err error) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.ErrorCode == "connection_error" {
		return fmt.Sprintf(`%s

Suggestions:
  - Start the agent: flightrec serve
  - Verify the control URL with --control-url or FLIGHTREC_CONTROL_URL`, apiErr.Message)
	}
	return err.Error()
}
