package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides of the form STOCKDESK_SECTION_FIELD
// (e.g., STOCKDESK_GATEWAY_API_KEY). Environment variables always take
// precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Gateway overrides
	if val := os.Getenv("STOCKDESK_GATEWAY_BASE_URL"); val != "" {
		cfg.Gateway.BaseURL = val
	}
	if val := os.Getenv("STOCKDESK_GATEWAY_API_KEY"); val != "" {
		cfg.Gateway.APIKey = val
	}
	overrideDuration(&cfg.Gateway.Timeout, "STOCKDESK_GATEWAY_TIMEOUT")
	overrideDuration(&cfg.Gateway.MinRequestInterval, "STOCKDESK_GATEWAY_MIN_REQUEST_INTERVAL")
	overrideInt(&cfg.Gateway.MaxIdleConns, "STOCKDESK_GATEWAY_MAX_IDLE_CONNS")
	overrideInt(&cfg.Gateway.MaxIdleConnsPerHost, "STOCKDESK_GATEWAY_MAX_IDLE_CONNS_PER_HOST")

	// Polling overrides
	overrideDuration(&cfg.Polling.Interval, "STOCKDESK_POLLING_INTERVAL")
	overrideDuration(&cfg.Polling.BatchInterval, "STOCKDESK_POLLING_BATCH_INTERVAL")
	overrideDuration(&cfg.Polling.MaxPollingTime, "STOCKDESK_POLLING_MAX_POLLING_TIME")

	// Pricing overrides
	if val := os.Getenv("STOCKDESK_PRICING_TABLE_FILE"); val != "" {
		cfg.Pricing.TableFile = val
	}
	overrideBool(&cfg.Pricing.WatchTable, "STOCKDESK_PRICING_WATCH_TABLE")

	// Orders overrides
	overrideDuration(&cfg.Orders.RetentionAge, "STOCKDESK_ORDERS_RETENTION_AGE")
	if val := os.Getenv("STOCKDESK_ORDERS_PRUNE_SCHEDULE"); val != "" {
		cfg.Orders.PruneSchedule = val
	}

	// Logging overrides
	if val := os.Getenv("STOCKDESK_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("STOCKDESK_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	// Metrics overrides
	overrideBool(&cfg.Metrics.Enabled, "STOCKDESK_METRICS_ENABLED")
}

func overrideDuration(target *time.Duration, env string) {
	if val := os.Getenv(env); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*target = d
		}
	}
}

func overrideInt(target *int, env string) {
	if val := os.Getenv(env); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*target = i
		}
	}
}

func overrideBool(target *bool, env string) {
	if val := os.Getenv(env); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*target = b
		}
	}
}
