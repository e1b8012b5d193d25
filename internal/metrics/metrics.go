// Package metrics exports timer activity as prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"porttime/internal/core"
)

const namespace = "porttime"

// Metrics implements the timer observer interface on top of prometheus
// collectors. All fields are safe for concurrent use.
type Metrics struct {
	SessionsStarted prometheus.Counter
	SessionsStopped prometheus.Counter
	ActiveSessions  prometheus.Gauge
	Resolution      prometheus.Gauge
	Ticks           prometheus.Counter
	TickLateness    prometheus.Histogram

	registry *prometheus.Registry
}

// New creates the timer metrics and registers them on a private registry.
func New() *Metrics {
	subsystem := "timer"
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_started_total",
			Help:      "Callback sessions started.",
		}),
		SessionsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_stopped_total",
			Help:      "Callback sessions whose goroutine has exited.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_sessions",
			Help:      "Callback sessions currently running.",
		}),
		Resolution: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolution_milliseconds",
			Help:      "Tick resolution of the most recently started session.",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ticks_total",
			Help:      "Callback invocations.",
		}),
		TickLateness: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tick_lateness_seconds",
			Help:      "Delay between a tick's scheduled time and the callback invocation.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1},
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.SessionsStarted,
		m.SessionsStopped,
		m.ActiveSessions,
		m.Resolution,
		m.Ticks,
		m.TickLateness,
	)
	return m
}

func (m *Metrics) SessionStarted(_ uint64, resolutionMs int64) {
	m.SessionsStarted.Inc()
	m.ActiveSessions.Inc()
	m.Resolution.Set(float64(resolutionMs))
}

func (m *Metrics) Tick(_ uint64, e core.TickEvent) {
	m.Ticks.Inc()
	m.TickLateness.Observe(e.Lateness().Seconds())
}

func (m *Metrics) SessionStopped(uint64) {
	m.SessionsStopped.Inc()
	m.ActiveSessions.Dec()
}

// Registry returns the registry holding the timer metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
