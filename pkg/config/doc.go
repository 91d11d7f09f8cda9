// Package config loads and validates stockdesk configuration.
//
// # Overview
//
// Configuration is read from a YAML file, filled in with defaults, and then
// optionally overridden by environment variables of the form
// STOCKDESK_SECTION_FIELD (for example STOCKDESK_GATEWAY_API_KEY).
// Validation collects every problem it finds and reports them together.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    // one or more fields are invalid; nothing was partially applied
//	}
//
// The gateway API key is required: a missing or empty key fails loading
// rather than surfacing on the first request.
package config
