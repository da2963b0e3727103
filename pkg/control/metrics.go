package control

import (
	"strings"

	"github.com/flightrec/flightrec/pkg/metrics"
	"github.com/flightrec/flightrec/pkg/recorder"
)

// serverMetrics holds the agent's operational metrics.
type serverMetrics struct {
	registry   *metrics.Registry
	recordings *metrics.Counter
	dumps      *metrics.Counter
}

// newServerMetrics builds the metric registry for a recorder. Gauges are
// computed at scrape time from the recorder's live state.
func newServerMetrics(rc *recorder.Recorder) *serverMetrics {
	reg := metrics.NewRegistry()
	m := &serverMetrics{registry: reg}

	m.recordings, _ = reg.NewCounter(
		"flightrec_recording_actions_total",
		"Recording lifecycle actions performed via the control API",
		"action",
	)
	m.dumps, _ = reg.NewCounter(
		"flightrec_dumps_total",
		"Recording dumps written via the control API",
		"",
	)

	_, _ = reg.NewGaugeFunc(
		"flightrec_recordings",
		"Recordings currently held by the agent, by state",
		func() []metrics.Sample {
			byState := make(map[string]float64)
			for _, r := range rc.Recordings() {
				byState[strings.ToLower(string(r.State()))]++
			}
			samples := make([]metrics.Sample, 0, len(byState))
			for state, n := range byState {
				samples = append(samples, metrics.Sample{
					Labels: map[string]string{"state": state},
					Value:  n,
				})
			}
			return samples
		},
	)
	_, _ = reg.NewGaugeFunc(
		"flightrec_buffer_bytes",
		"Estimated bytes buffered across all recordings",
		func() []metrics.Sample {
			var total float64
			for _, r := range rc.Recordings() {
				total += float64(r.Size())
			}
			return []metrics.Sample{{Value: total}}
		},
	)

	return m
}
