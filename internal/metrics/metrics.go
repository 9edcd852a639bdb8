// Package metrics exposes run statistics as Prometheus metrics and samples
// runtime memory usage.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/taskflow/internal/event"
)

const namespace = "taskflow"

// Metrics owns a private registry so that concurrent runs and tests do not
// collide on the global default registry.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	started   *prometheus.CounterVec
	retries   *prometheus.CounterVec
	completed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, together with the Go
// runtime collector, on a fresh registry.
func NewMetrics() *Metrics {
	labels := []string{"demo"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_started_total",
			Help:      "Number of task units started.",
		}, labels),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_retries_total",
			Help:      "Number of rejected draws across all units.",
		}, labels),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_completed_total",
			Help:      "Number of task units that returned a result.",
		}, labels),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_failed_total",
			Help:      "Number of task units that returned an error.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a whole fan-out/fan-in run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, labels),
	}
	m.registry.MustRegister(
		m.started, m.retries, m.completed, m.failed, m.duration,
		collectors.NewGoCollector(),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Observer returns an event observer that counts lifecycle events under the
// given demo label.
func (m *Metrics) Observer(demo string) event.Observer {
	started := m.started.WithLabelValues(demo)
	retries := m.retries.WithLabelValues(demo)
	completed := m.completed.WithLabelValues(demo)
	failed := m.failed.WithLabelValues(demo)
	return event.ObserverFunc(func(_ int, kind event.Kind, _ string) {
		switch kind {
		case event.Start:
			started.Inc()
		case event.Retry:
			retries.Inc()
		case event.Done:
			completed.Inc()
		case event.Fail:
			failed.Inc()
		}
	})
}

// ObserveRun records the duration of a finished run.
func (m *Metrics) ObserveRun(demo string, d time.Duration) {
	m.duration.WithLabelValues(demo).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}


// WriteText dumps every taskflow metric family in the text exposition format.
// Go runtime families are omitted to keep the dump short.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
