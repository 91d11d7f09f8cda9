package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Kind identifies one class of gateway failure.
type Kind string

const (
	// KindTimeout is a transport deadline exceeded. Retryable.
	KindTimeout Kind = "timeout"

	// KindNetwork is a DNS or connection failure. Retryable, with one
	// carve-out: a request cancelled by its caller surfaces on this kind
	// (the kind set has no slot for cancellation) but is never retryable.
	KindNetwork Kind = "network"

	// KindAuth is a 401/403 response. Not retryable.
	KindAuth Kind = "auth"

	// KindRateLimit is a 429 response. Retryable after backoff.
	KindRateLimit Kind = "rate_limit"

	// KindValidation is malformed input caught before transport. Not retryable.
	KindValidation Kind = "validation"

	// KindServer is a 5xx response. Retryable.
	KindServer Kind = "server"

	// KindRequestFailed is a 2xx transport whose envelope signals failure.
	// Retryability depends on the server-declared code.
	KindRequestFailed Kind = "request_failed"
)

// Error is the typed failure surfaced by every gateway operation.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// HTTPStatus is the HTTP status code (0 if the failure never got a response).
	HTTPStatus int

	// Retryable indicates the failure is transient and safe to retry.
	Retryable bool

	// RetryAfter is the server-suggested wait before retrying (429 only).
	RetryAfter time.Duration

	// Code is the server-declared error code for envelope failures.
	Code string

	// Details carries optional structured context (e.g., the invalid field).
	Details map[string]string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("gateway %s error (status %d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("gateway %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a gateway error marked retryable.
// Unknown errors are treated as not retryable.
func IsRetryable(err error) bool {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Retryable
	}
	return false
}

// KindOf returns the kind of a gateway error, or the empty string for
// errors that did not come from the gateway.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return ""
}

// ConfigError represents an invalid client configuration.
// Construction fails fast rather than deferring to the first call.
type ConfigError struct {
	// Field is the configuration field that is invalid.
	Field string

	// Message describes the configuration error.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("gateway configuration error for field %q: %s", e.Field, e.Message)
}

// retryableServerCodes are envelope failure codes the server declares safe
// to retry.
var retryableServerCodes = map[string]bool{
	"temporarily_unavailable": true,
	"try_again":               true,
	"queue_full":              true,
}

// newValidationError builds a validation failure for input rejected before
// transport.
func newValidationError(field, message string) *Error {
	return &Error{
		Kind:      KindValidation,
		Message:   fmt.Sprintf("%s: %s", field, message),
		Retryable: false,
		Details:   map[string]string{"field": field},
	}
}

// classifyTransportError maps a failed http.Client.Do into the taxonomy.
func classifyTransportError(err error, timeout time.Duration) *Error {
	// Deadline and cancellation first: url.Error wraps both.
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Kind:      KindTimeout,
			Message:   fmt.Sprintf("request timed out after %s", timeout),
			Retryable: true,
			Cause:     err,
		}
	}
	// Cancellation is caller-initiated, not a transport fault. It rides
	// the network kind but is never retryable, and callers can still
	// detect it with errors.Is(err, context.Canceled) through Cause.
	if errors.Is(err, context.Canceled) {
		return &Error{
			Kind:      KindNetwork,
			Message:   "request cancelled",
			Retryable: false,
			Cause:     err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{
			Kind:      KindTimeout,
			Message:   fmt.Sprintf("request timed out after %s", timeout),
			Retryable: true,
			Cause:     err,
		}
	}

	// Everything else at the transport layer is a connectivity problem:
	// DNS failure, connection refused, reset, TLS handshake.
	return &Error{
		Kind:      KindNetwork,
		Message:   "connection failed",
		Retryable: true,
		Cause:     err,
	}
}

// classifyStatus maps a non-2xx HTTP response into the taxonomy.
func classifyStatus(status int, body []byte, retryAfterHeader string) *Error {
	message := string(body)
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{
			Kind:       KindAuth,
			Message:    message,
			HTTPStatus: status,
			Retryable:  false,
		}

	case status == http.StatusTooManyRequests:
		return &Error{
			Kind:       KindRateLimit,
			Message:    message,
			HTTPStatus: status,
			Retryable:  true,
			RetryAfter: parseRetryAfter(retryAfterHeader),
		}

	case status >= 500:
		return &Error{
			Kind:       KindServer,
			Message:    message,
			HTTPStatus: status,
			Retryable:  true,
		}

	default:
		// Remaining 4xx: the request was understood and rejected.
		return &Error{
			Kind:       KindRequestFailed,
			Message:    message,
			HTTPStatus: status,
			Retryable:  false,
		}
	}
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
