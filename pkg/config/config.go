package config

import "time"

// Config is the root configuration for stockdesk.
type Config struct {
	// Gateway configures the fulfillment API client.
	Gateway GatewayConfig `yaml:"gateway"`

	// Polling configures status polling behavior.
	Polling PollingConfig `yaml:"polling"`

	// Pricing configures the tier table source.
	Pricing PricingConfig `yaml:"pricing"`

	// Orders configures order retention.
	Orders OrdersConfig `yaml:"orders"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// GatewayConfig configures the fulfillment API client.
type GatewayConfig struct {
	// BaseURL is the fulfillment API base URL.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates every request. Required.
	APIKey string `yaml:"api_key"`

	// Timeout is the per-request transport deadline.
	Timeout time.Duration `yaml:"timeout"`

	// MinRequestInterval is the enforced spacing between outbound requests.
	MinRequestInterval time.Duration `yaml:"min_request_interval"`

	// MaxIdleConns is the connection pool size.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the per-host connection pool size.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle connections are kept.
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// PollingConfig configures status polling.
type PollingConfig struct {
	// Interval is the base delay between status fetches for a single job.
	Interval time.Duration `yaml:"interval"`

	// BatchInterval is the base delay between fetch rounds when polling
	// multiple jobs at once. It is longer than Interval to bound the
	// aggregate request volume against the rate limiter.
	BatchInterval time.Duration `yaml:"batch_interval"`

	// MaxPollingTime is the hard ceiling on how long a job is polled.
	MaxPollingTime time.Duration `yaml:"max_polling_time"`
}

// PricingConfig configures the pricing tier table.
type PricingConfig struct {
	// TableFile is an optional YAML tier table path. When empty, the
	// built-in default table is used.
	TableFile string `yaml:"table_file"`

	// WatchTable enables hot reload of the tier table file.
	WatchTable bool `yaml:"watch_table"`
}

// OrdersConfig configures order retention.
type OrdersConfig struct {
	// RetentionAge is how long terminal orders are kept before pruning.
	RetentionAge time.Duration `yaml:"retention_age"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables scheduled pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem prefix.
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns a configuration with all defaults applied.
// The gateway base URL and API key still have to be supplied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = 30 * time.Second
	}
	if cfg.Gateway.MinRequestInterval == 0 {
		cfg.Gateway.MinRequestInterval = 500 * time.Millisecond
	}
	if cfg.Gateway.MaxIdleConns == 0 {
		cfg.Gateway.MaxIdleConns = 100
	}
	if cfg.Gateway.MaxIdleConnsPerHost == 0 {
		cfg.Gateway.MaxIdleConnsPerHost = 10
	}
	if cfg.Gateway.IdleConnTimeout == 0 {
		cfg.Gateway.IdleConnTimeout = 90 * time.Second
	}

	if cfg.Polling.Interval == 0 {
		cfg.Polling.Interval = 2 * time.Second
	}
	if cfg.Polling.BatchInterval == 0 {
		cfg.Polling.BatchInterval = 5 * time.Second
	}
	if cfg.Polling.MaxPollingTime == 0 {
		cfg.Polling.MaxPollingTime = 30 * time.Minute
	}

	if cfg.Orders.RetentionAge == 0 {
		cfg.Orders.RetentionAge = 24 * time.Hour
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "stockdesk"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "fulfillment"
	}
}
