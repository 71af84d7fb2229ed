// Package telemetry exposes monitor state as Prometheus metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/synkyria/synkyria/pkg/monitor"
)

// Metrics holds all Prometheus metrics for a monitored run. Each instance
// carries its own registry so several runs can be scraped side by side
// without collisions.
type Metrics struct {
	// Index metrics
	crq prometheus.Gauge
	scp prometheus.Gauge

	// Governance metrics
	stepsTotal   *prometheus.CounterVec
	actionsTotal *prometheus.CounterVec
	statusActive *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics instance with all monitor metrics registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		crq: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "synkyria_crq",
				Help: "Crisis Quotient: downside loss volatility over the recent window, in [0,1]",
			},
		),

		scp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "synkyria_scp",
				Help: "Suspended Coherence: distance of validation performance from its recent peak, in [0,1]",
			},
		),

		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synkyria_steps_total",
				Help: "Total number of monitored epochs partitioned by emitted status",
			},
			[]string{"status"},
		),

		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synkyria_actions_total",
				Help: "Total number of recommended interventions partitioned by action",
			},
			[]string{"action"},
		),

		statusActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "synkyria_status",
				Help: "One-hot gauge of the status emitted at the most recent epoch",
			},
			[]string{"status"},
		),

		registry: registry,
	}

	registry.MustRegister(m.crq, m.scp, m.stepsTotal, m.actionsTotal, m.statusActive)
	return m
}

// ObserveStep records one emitted snapshot.
func (m *Metrics) ObserveStep(snap monitor.Snapshot) {
	m.crq.Set(snap.CRQ)
	m.scp.Set(snap.SCP)
	m.stepsTotal.WithLabelValues(string(snap.Status)).Inc()
	if snap.Action != monitor.ActionNone {
		m.actionsTotal.WithLabelValues(string(snap.Action)).Inc()
	}
	for _, s := range monitor.Statuses {
		v := 0.0
		if s == snap.Status {
			v = 1.0
		}
		m.statusActive.WithLabelValues(string(s)).Set(v)
	}
}

// Handler returns an HTTP handler serving this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
