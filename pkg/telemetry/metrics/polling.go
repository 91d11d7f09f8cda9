package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"stockdesk/fulfillment/pkg/config"
)

// PollingMetrics tracks status poller activity.
//
// Metrics:
//   - polling_sessions_active: Currently active polling sessions
//   - polling_ticks_total: Poll ticks by outcome
//   - polling_session_duration_seconds: How long sessions polled before stopping
type PollingMetrics struct {
	sessionsActive  prometheus.Gauge
	ticksTotal      *prometheus.CounterVec
	sessionDuration prometheus.Histogram
}

// NewPollingMetrics creates and registers poller metrics with the provided registry.
func NewPollingMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PollingMetrics {
	pm := &PollingMetrics{
		sessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "polling_sessions_active",
				Help:      "Number of polling sessions currently active",
			},
		),

		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "polling_ticks_total",
				Help:      "Total poll ticks by outcome",
			},
			[]string{"outcome"},
		),

		sessionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "polling_session_duration_seconds",
				Help:      "How long polling sessions ran before stopping",
				Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800},
			},
		),
	}

	registry.MustRegister(
		pm.sessionsActive,
		pm.ticksTotal,
		pm.sessionDuration,
	)

	return pm
}

// SessionStarted records a new active polling session.
func (pm *PollingMetrics) SessionStarted() {
	if pm == nil {
		return
	}
	pm.sessionsActive.Inc()
}

// SessionEnded records a session stopping after running for the given duration.
func (pm *PollingMetrics) SessionEnded(duration time.Duration) {
	if pm == nil {
		return
	}
	pm.sessionsActive.Dec()
	pm.sessionDuration.Observe(duration.Seconds())
}

// RecordTick records one poll tick.
//
// Outcomes: "unchanged", "changed", "terminal", "error", "discarded".
func (pm *PollingMetrics) RecordTick(outcome string) {
	if pm == nil {
		return
	}
	pm.ticksTotal.WithLabelValues(outcome).Inc()
}
