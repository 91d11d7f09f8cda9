package logging

import (
	"bytes"
	"strings"
	"testing"

	"stockdesk/fulfillment/pkg/config"
)

func TestNew_LevelsAndFormats(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{name: "json info", cfg: config.LoggingConfig{Level: "info", Format: "json"}},
		{name: "text debug", cfg: config.LoggingConfig{Level: "debug", Format: "text"}},
		{name: "empty defaults", cfg: config.LoggingConfig{}},
		{name: "bad level", cfg: config.LoggingConfig{Level: "loud", Format: "json"}, wantErr: true},
		{name: "bad format", cfg: config.LoggingConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, &bytes.Buffer{})
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message should have been filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message should have been emitted")
	}
}

func TestRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("request sent", "api_key", "super-secret-key", "order_id", "ord-1")

	out := buf.String()
	if strings.Contains(out, "super-secret-key") {
		t.Error("api_key value leaked into log output")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("expected redaction placeholder in output")
	}
	if !strings.Contains(out, "ord-1") {
		t.Error("non-sensitive attribute should pass through")
	}
}

func TestRedaction_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	derived := logger.With("token", "abc123")
	derived.Info("hello")

	if strings.Contains(buf.String(), "abc123") {
		t.Error("token value leaked through derived logger")
	}
}
