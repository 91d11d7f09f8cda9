package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"stockdesk/fulfillment/pkg/config"
)

// GatewayMetrics tracks fulfillment API client activity.
//
// Metrics:
//   - gateway_requests_total: Request count by operation and status
//   - gateway_request_duration_seconds: Request duration histogram
//   - gateway_ratelimit_wait_seconds: Time spent waiting on the rate limiter
type GatewayMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimitWait   prometheus.Histogram
}

// NewGatewayMetrics creates and registers gateway metrics with the provided registry.
func NewGatewayMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GatewayMetrics {
	gm := &GatewayMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "gateway_requests_total",
				Help:      "Total number of fulfillment API requests",
			},
			[]string{"operation", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "gateway_request_duration_seconds",
				Help:      "Duration of fulfillment API requests in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"operation"},
		),

		rateLimitWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "gateway_ratelimit_wait_seconds",
				Help:      "Time spent waiting for a rate limiter slot in seconds",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
		),
	}

	registry.MustRegister(
		gm.requestsTotal,
		gm.requestDuration,
		gm.rateLimitWait,
	)

	return gm
}

// RecordRequest records one completed API call.
//
// Parameters:
//   - operation: API operation name (e.g., "create_order")
//   - status: "success" or the error kind on failure
//   - duration: wall-clock time of the transport call
func (gm *GatewayMetrics) RecordRequest(operation, status string, duration time.Duration) {
	if gm == nil {
		return
	}
	gm.requestsTotal.WithLabelValues(operation, status).Inc()
	gm.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRateLimitWait records how long a call waited for its limiter slot.
func (gm *GatewayMetrics) RecordRateLimitWait(duration time.Duration) {
	if gm == nil {
		return
	}
	gm.rateLimitWait.Observe(duration.Seconds())
}
