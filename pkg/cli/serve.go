package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flightrec/flightrec/pkg/control"
	"github.com/flightrec/flightrec/pkg/event"
	"github.com/flightrec/flightrec/pkg/logging"
	"github.com/flightrec/flightrec/pkg/preset"
	"github.com/flightrec/flightrec/pkg/recorder"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveFlags holds the flag values for the serve command.
type serveFlags struct {
	listen         string
	logLevel       string
	logFormat      string
	sampleInterval time.Duration
	preset         string
	name           string
	duration       string
	maxSize        int64
	maxAge         string
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the flight recorder agent (foreground)",
	Long: `Run the flight recorder agent in the foreground.

The agent keeps the event-type catalog and all recordings in memory, samples
the Go runtime periodically, and exposes the control API that the other
flightrec commands talk to. With --preset a recording is started immediately
using the named settings preset.`,
	Example: `  # Run with defaults
  flightrec serve

  # Run on a custom address with debug logging
  flightrec serve --listen 127.0.0.1:9999 --log-level debug

  # Run and immediately start a profiling recording capped at 100 MiB
  flightrec serve --preset profile --name boot --max-size 104857600`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(&serveFlagVals)
	},
}

func runServe(f *serveFlags) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
		Output: os.Stderr,
	})

	catalog := event.NewCatalog()
	if err := event.RegisterBuiltins(catalog); err != nil {
		return fmt.Errorf("failed to register event types: %w", err)
	}
	rc := recorder.New(catalog)

	if f.preset != "" {
		if err := startInitialRecording(rc, f); err != nil {
			return err
		}
		log.Info("started initial recording", "preset", f.preset, "name", f.name)
	}

	srv := control.NewServer(rc, f.listen,
		control.WithLogger(log),
		control.WithVersion(Version),
	)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start control API: %w", err)
	}
	log.Info("control API listening", "addr", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampler := recorder.NewSampler(rc, f.sampleInterval, recorder.WithSamplerLogger(log))
	go sampler.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", "signal", sig.String())

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// startInitialRecording creates and starts the recording requested via
// --preset and the related flags.
func startInitialRecording(rc *recorder.Recorder, f *serveFlags) error {
	p, err := preset.Resolve(f.preset)
	if err != nil {
		return fmt.Errorf("invalid preset %q: %w", f.preset, err)
	}

	r := rc.NewRecording(f.name)
	if f.duration != "" {
		d, err := time.ParseDuration(f.duration)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		if err := r.SetDuration(d); err != nil {
			return err
		}
	}
	if f.maxSize > 0 {
		if err := r.SetMaxSize(f.maxSize); err != nil {
			return err
		}
	}
	if f.maxAge != "" {
		age, err := time.ParseDuration(f.maxAge)
		if err != nil {
			return fmt.Errorf("invalid maxage: %w", err)
		}
		if err := r.SetMaxAge(age); err != nil {
			return err
		}
	}
	if err := p.Apply(r); err != nil {
		return fmt.Errorf("failed to apply preset: %w", err)
	}
	return r.Start()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().StringVar(&f.listen, "listen", fmt.Sprintf("127.0.0.1:%d", control.DefaultPort), "Control API listen address")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
	serveCmd.Flags().DurationVar(&f.sampleInterval, "sample-interval", 10*time.Second, "Runtime sampling interval")
	serveCmd.Flags().StringVar(&f.preset, "preset", "", "Start a recording immediately with this settings preset")
	serveCmd.Flags().StringVar(&f.name, "name", "", "Name for the initial recording")
	serveCmd.Flags().StringVar(&f.duration, "duration", "", "Duration for the initial recording (e.g. 10m)")
	serveCmd.Flags().Int64Var(&f.maxSize, "max-size", 0, "Buffer size limit in bytes for the initial recording (0 = unlimited)")
	serveCmd.Flags().StringVar(&f.maxAge, "max-age", "", "Event age limit for the initial recording (e.g. 2h)")
}
