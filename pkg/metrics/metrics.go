// Package metrics provides Prometheus-compatible metrics for the agent.
//
// It implements the Prometheus text exposition format (text/plain;
// version=0.0.4) without any external dependencies, using only the standard
// library. The agent exposes a Registry at GET /metrics on the control API.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// MetricType represents the type of a metric.
type MetricType string

const (
	MetricTypeCounter MetricType = "counter"
	MetricTypeGauge   MetricType = "gauge"
)

// Metric is the interface implemented by all metric types.
type Metric interface {
	// Name returns the metric name.
	Name() string
	// Help returns the help text.
	Help() string
	// Type returns the metric type.
	Type() MetricType
	// Collect returns all metric samples for exposition.
	Collect() []Sample
}

// Sample represents a single metric sample with labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Counter is a monotonically increasing metric with an optional label.
type Counter struct {
	name      string
	help      string
	labelName string

	mu     sync.Mutex
	values map[string]float64
	total  float64
}

func (c *Counter) Name() string     { return c.name }
func (c *Counter) Help() string     { return c.help }
func (c *Counter) Type() MetricType { return MetricTypeCounter }

// Inc increments the unlabeled counter by one.
func (c *Counter) Inc() {
	c.mu.Lock()
	c.total++
	c.mu.Unlock()
}

// IncLabel increments the counter series for the given label value by one.
// The counter must have been registered with a label name.
func (c *Counter) IncLabel(value string) {
	c.mu.Lock()
	c.values[value]++
	c.mu.Unlock()
}

func (c *Counter) Collect() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.labelName == "" {
		return []Sample{{Name: c.name, Value: c.total}}
	}

	values := make([]string, 0, len(c.values))
	for v := range c.values {
		values = append(values, v)
	}
	sort.Strings(values)

	samples := make([]Sample, 0, len(values))
	for _, v := range values {
		samples = append(samples, Sample{
			Name:   c.name,
			Labels: map[string]string{c.labelName: v},
			Value:  c.values[v],
		})
	}
	return samples
}

// GaugeFunc is a gauge whose samples are computed at scrape time.
type GaugeFunc struct {
	name    string
	help    string
	collect func() []Sample
}

func (g *GaugeFunc) Name() string     { return g.name }
func (g *GaugeFunc) Help() string     { return g.help }
func (g *GaugeFunc) Type() MetricType { return MetricTypeGauge }

func (g *GaugeFunc) Collect() []Sample {
	samples := g.collect()
	for i := range samples {
		if samples[i].Name == "" {
			samples[i].Name = g.name
		}
	}
	return samples
}

// Registry holds a set of metrics and serves them in Prometheus text format.
type Registry struct {
	mu      sync.RWMutex
	names   map[string]bool
	metrics []Metric
}

// NewRegistry creates an empty metric registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

func (r *Registry) register(m Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names[m.Name()] {
		return fmt.Errorf("%w: %s", ErrDuplicateMetric, m.Name())
	}
	r.names[m.Name()] = true
	r.metrics = append(r.metrics, m)
	return nil
}

// NewCounter registers a counter. labelName may be empty for a single series.
func (r *Registry) NewCounter(name, help, labelName string) (*Counter, error) {
	c := &Counter{
		name:      name,
		help:      help,
		labelName: labelName,
		values:    make(map[string]float64),
	}
	if err := r.register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewGaugeFunc registers a gauge computed by fn at scrape time.
// Samples returned with an empty Name inherit the gauge's name.
func (r *Registry) NewGaugeFunc(name, help string, fn func() []Sample) (*GaugeFunc, error) {
	g := &GaugeFunc{name: name, help: help, collect: fn}
	if err := r.register(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Handler returns an http.Handler serving the registry in text format.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.RLock()
		metrics := make([]Metric, len(r.metrics))
		copy(metrics, r.metrics)
		r.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		for _, m := range metrics {
			writeMetric(w, m)
		}
	})
}

// writeMetric writes a single metric in Prometheus text format.
func writeMetric(w http.ResponseWriter, m Metric) {
	samples := m.Collect()
	if len(samples) == 0 {
		return
	}

	fmt.Fprintf(w, "# HELP %s %s\n", m.Name(), m.Help())
	fmt.Fprintf(w, "# TYPE %s %s\n", m.Name(), m.Type())
	for _, s := range samples {
		fmt.Fprintf(w, "%s%s %s\n", s.Name, formatLabels(s.Labels), formatFloat(s.Value))
	}
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf(`%s="%s"`, name, escapeLabelValue(labels[name])))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func escapeLabelValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
