package logging

import (
	"context"
	"log/slog"
	"strings"
)

// sensitiveKeys are attribute names whose values are never logged verbatim.
var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"x-api-key":     true,
	"authorization": true,
	"token":         true,
	"secret":        true,
}

const redactedValue = "[REDACTED]"

// redactHandler wraps a slog.Handler and replaces sensitive attribute
// values before they reach the underlying handler.
type redactHandler struct {
	inner slog.Handler
}

func newRedactHandler(inner slog.Handler) slog.Handler {
	return &redactHandler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *redactHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(Redact(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		clean = append(clean, Redact(attr))
	}
	return &redactHandler{inner: h.inner.WithAttrs(clean)}
}

// WithGroup implements slog.Handler.
func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{inner: h.inner.WithGroup(name)}
}

// Redact returns the attribute with its value replaced if the key names a
// credential. Group attributes are redacted recursively.
func Redact(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		members := attr.Value.Group()
		clean := make([]slog.Attr, 0, len(members))
		for _, member := range members {
			clean = append(clean, Redact(member))
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(clean...)}
	}

	if sensitiveKeys[strings.ToLower(attr.Key)] {
		return slog.String(attr.Key, redactedValue)
	}
	return attr
}
