// Package control exposes a local HTTP API over a running recorder.
//
// The API is the boundary the CLI talks to. Diagnostic commands execute
// inside the recorder's process; only their result crosses the wire. In
// particular the check report is rendered in-process and returned as plain
// text, so the CLI prints exactly what the recorder produced.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/flightrec/flightrec/pkg/logging"
	"github.com/flightrec/flightrec/pkg/recorder"
)

// DefaultPort is the default control API port.
const DefaultPort = 7091

// Server serves the control API for one recorder.
type Server struct {
	recorder   *recorder.Recorder
	httpServer *http.Server
	addr       string
	version    string
	startTime  time.Time
	log        *slog.Logger
	metrics    *serverMetrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the operational logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithVersion sets the version string reported by GET /status.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates a control server for the given recorder, listening on
// addr (host:port).
func NewServer(rc *recorder.Recorder, addr string, opts ...Option) *Server {
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", DefaultPort)
	}
	s := &Server{
		recorder: rc,
		addr:     addr,
		version:  "dev",
		log:      logging.Nop(),
		metrics:  newServerMetrics(rc),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the API handler, for mounting in tests or in an embedding
// application's own server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	s.startTime = time.Now()
	s.log.Info("starting control API", "addr", s.addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("control API error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping control API")
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns seconds since Start.
func (s *Server) Uptime() int {
	if s.startTime.IsZero() {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}

// registerRoutes sets up all API routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", s.metrics.registry.Handler())

	// Diagnostic commands
	mux.HandleFunc("GET /check", s.handleCheck)

	// Recording management
	mux.HandleFunc("GET /recordings", s.handleListRecordings)
	mux.HandleFunc("POST /recordings", s.handleStartRecording)
	mux.HandleFunc("POST /recordings/{id}/stop", s.handleStopRecording)
	mux.HandleFunc("DELETE /recordings/{id}", s.handleCloseRecording)
	mux.HandleFunc("GET /recordings/{id}/events", s.handleListEvents)
	mux.HandleFunc("POST /recordings/{id}/dump", s.handleDumpRecording)

	// Event-type catalog
	mux.HandleFunc("GET /events/types", s.handleListEventTypes)
}
