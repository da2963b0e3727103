package recorder

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/flightrec/flightrec/pkg/event"
	"github.com/flightrec/flightrec/pkg/logging"
)

// Sampler periodically emits built-in runtime events into a recorder.
// It observes the Go runtime of the process it runs in: heap statistics,
// goroutine counts, CPU usage, and completed garbage collection cycles.
type Sampler struct {
	recorder *Recorder
	interval time.Duration
	log      *slog.Logger

	lastNumGC  uint32
	lastSample time.Time
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithSamplerLogger sets the logger used by the sampler.
func WithSamplerLogger(log *slog.Logger) SamplerOption {
	return func(s *Sampler) {
		s.log = log
	}
}

// NewSampler creates a sampler that emits into rc every interval.
// A non-positive interval defaults to 10 seconds.
func NewSampler(rc *Recorder, interval time.Duration, opts ...SamplerOption) *Sampler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := &Sampler{
		recorder: rc,
		interval: interval,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run samples until ctx is cancelled. Events land only in recordings that
// are running and have the corresponding type enabled, so an idle agent
// pays for little more than the ticker.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Debug("sampler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("sampler stopped")
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Sampler) sample() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	now := time.Now()

	s.recorder.Emit(event.New("runtime.Heap", map[string]any{
		"heapAlloc":   stats.HeapAlloc,
		"heapSys":     stats.HeapSys,
		"heapObjects": stats.HeapObjects,
	}))
	s.recorder.Emit(event.New("runtime.Goroutines", map[string]any{
		"count": runtime.NumGoroutine(),
	}))
	s.emitCPULoad(now, stats.GCCPUFraction)

	// One event per GC cycle completed since the last sample.
	for n := s.lastNumGC; n < stats.NumGC; n++ {
		pauseNs := stats.PauseNs[n%uint32(len(stats.PauseNs))]
		s.recorder.Emit(event.New("runtime.GC", map[string]any{
			"cycle":       n + 1,
			"pauseMillis": float64(pauseNs) / float64(time.Millisecond),
		}))
	}
	s.lastNumGC = stats.NumGC
}

// emitCPULoad approximates process CPU usage from GC CPU fraction and
// wall-clock deltas. It is a coarse signal, not an accounting tool.
func (s *Sampler) emitCPULoad(now time.Time, gcFraction float64) {
	if !s.lastSample.IsZero() {
		elapsed := now.Sub(s.lastSample)
		if elapsed > 0 {
			s.recorder.Emit(event.New("os.CPULoad", map[string]any{
				"gcFraction": gcFraction,
				"elapsedMs":  elapsed.Milliseconds(),
			}))
		}
	}
	s.lastSample = now
}
