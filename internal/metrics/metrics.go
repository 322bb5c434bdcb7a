// Package metrics exposes Prometheus counters for authentication, the session
// gate and photo uploads.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "photoshare"

// Metrics owns its registry, so several instances can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	AuthAttempts  *prometheus.CounterVec
	GateDecisions *prometheus.CounterVec
	Uploads       *prometheus.CounterVec
}

// New registers the counters plus Go and process collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		AuthAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Login and registration attempts by outcome.",
		}, []string{"action", "outcome"}),
		GateDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_gate_total",
			Help:      "Session gate evaluations by token state.",
		}, []string{"state"}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_uploads_total",
			Help:      "Photo uploads by outcome.",
		}, []string{"outcome"}),
	}
}

// Auth counts one login or register attempt. Safe on a nil receiver.
func (m *Metrics) Auth(action, outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(action, outcome).Inc()
}

// Gate counts one session gate decision by token state.
func (m *Metrics) Gate(state string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(state).Inc()
}

// Upload counts one upload attempt.
func (m *Metrics) Upload(outcome string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry}))
}
