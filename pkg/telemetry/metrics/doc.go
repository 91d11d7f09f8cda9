// Package metrics exposes Prometheus metrics for the fulfillment core.
//
// # Overview
//
// The Collector owns a Prometheus registry and the metric families for the
// gateway client and the status poller:
//
//   - stockdesk_fulfillment_gateway_requests_total{operation, status}
//   - stockdesk_fulfillment_gateway_request_duration_seconds{operation}
//   - stockdesk_fulfillment_gateway_ratelimit_wait_seconds
//   - stockdesk_fulfillment_polling_sessions_active
//   - stockdesk_fulfillment_polling_ticks_total{outcome}
//   - stockdesk_fulfillment_polling_session_duration_seconds
//
// All recording methods are nil-safe: components accept an optional metrics
// handle and record unconditionally, so disabling metrics is just passing nil.
package metrics
