package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockdesk/fulfillment/pkg/config"
)

// Collector owns the Prometheus registry and all metric families for the
// fulfillment core.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	gateway *GatewayMetrics
	polling *PollingMetrics
}

// NewCollector creates a collector and registers all metrics with the given
// registry. If registry is nil, a fresh private registry is used, which keeps
// tests isolated from each other.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "stockdesk"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "fulfillment"
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		gateway:  NewGatewayMetrics(cfg, registry),
		polling:  NewPollingMetrics(cfg, registry),
	}
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format, for mounting at /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Gateway returns the gateway client metrics.
func (c *Collector) Gateway() *GatewayMetrics {
	if c == nil {
		return nil
	}
	return c.gateway
}

// Polling returns the status poller metrics.
func (c *Collector) Polling() *PollingMetrics {
	if c == nil {
		return nil
	}
	return c.polling
}
