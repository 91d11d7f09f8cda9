// Package gateway is the typed, rate-limited client for the fulfillment API.
//
// # Overview
//
// The fulfillment API serves stock-media orders and AI image-generation jobs
// behind a single HTTP surface. Every response is wrapped in a JSON envelope
// carrying a boolean success indicator; the client decodes that envelope once
// at the transport boundary, so callers only ever see typed payloads or typed
// errors.
//
//	client, err := gateway.NewClient(cfg.Gateway, nil, nil)
//	if err != nil {
//	    return err // configuration problem, e.g. missing API key
//	}
//	orderID, err := client.CreateOrder(ctx, "shutterstock", "12345", cost)
//
// # Rate Limiting
//
// All operations of one client share a single ratelimit.Limiter, which spaces
// outbound requests by the configured minimum interval. Concurrent callers
// queue rather than race.
//
// # Error Taxonomy
//
// Failures are classified into a closed set of kinds (see Kind), each with a
// Retryable flag. The client never retries on its own; retry policy belongs
// to the caller, typically the status poller.
package gateway
