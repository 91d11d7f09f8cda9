package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "gateway.api_key").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. All validation errors are
// collected and returned together as a ValidationError; nil means valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGateway(&cfg.Gateway)...)
	errs = append(errs, validatePolling(&cfg.Polling)...)
	errs = append(errs, validateOrders(&cfg.Orders)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateGateway validates the gateway client configuration.
// The API key is checked here so a missing key fails at construction,
// not on the first request.
func validateGateway(cfg *GatewayConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{Field: "gateway.base_url", Message: "base URL is required"})
	} else {
		parsed, err := url.Parse(cfg.BaseURL)
		if err != nil {
			errs = append(errs, FieldError{Field: "gateway.base_url", Message: fmt.Sprintf("invalid URL: %v", err)})
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errs = append(errs, FieldError{Field: "gateway.base_url", Message: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)})
		}
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		errs = append(errs, FieldError{Field: "gateway.api_key", Message: "API key is required"})
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "gateway.timeout", Message: "timeout must be positive"})
	}
	if cfg.MinRequestInterval < 0 {
		errs = append(errs, FieldError{Field: "gateway.min_request_interval", Message: "interval must not be negative"})
	}

	return errs
}

func validatePolling(cfg *PollingConfig) []FieldError {
	var errs []FieldError

	if cfg.Interval <= 0 {
		errs = append(errs, FieldError{Field: "polling.interval", Message: "interval must be positive"})
	}
	if cfg.BatchInterval <= 0 {
		errs = append(errs, FieldError{Field: "polling.batch_interval", Message: "interval must be positive"})
	}
	if cfg.MaxPollingTime <= 0 {
		errs = append(errs, FieldError{Field: "polling.max_polling_time", Message: "ceiling must be positive"})
	}

	return errs
}

func validateOrders(cfg *OrdersConfig) []FieldError {
	var errs []FieldError

	if cfg.RetentionAge <= 0 {
		errs = append(errs, FieldError{Field: "orders.retention_age", Message: "retention age must be positive"})
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", cfg.Level)})
	}

	switch cfg.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", cfg.Format)})
	}

	return errs
}
