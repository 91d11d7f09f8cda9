package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)

	data := map[string]any{"order_id": "ord-1", "units": 150}
	if err := f.FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["order_id"] != "ord-1" {
		t.Errorf("Unexpected output: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("Expected indented JSON")
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText)

	if err := f.FormatTo(&buf, "12.50 credits"); err != nil {
		t.Fatalf("FormatTo failed: %v", err)
	}
	if buf.String() != "12.50 credits\n" {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestBarProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Update("processing", 40)
	p.Update("processing", 80)
	p.Finish("completed")

	out := buf.String()
	if !strings.Contains(out, "40%") || !strings.Contains(out, "80%") {
		t.Errorf("Expected progress percentages in output: %q", out)
	}
	if !strings.Contains(out, "completed") {
		t.Errorf("Expected final status in output: %q", out)
	}
}

func TestBarProgress_ClampsPercent(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Update("processing", -5)
	p.Update("processing", 250)

	out := buf.String()
	if !strings.Contains(out, "  0%") || !strings.Contains(out, "100%") {
		t.Errorf("Expected clamped percentages, got %q", out)
	}
}
