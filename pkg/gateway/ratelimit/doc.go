// Package ratelimit enforces a minimum spacing between outbound requests.
//
// # Overview
//
// The fulfillment API tolerates only one request per client within a
// configured interval. The Limiter serializes all call sites of one gateway
// client into a queue spaced by that interval: each Wait reserves the next
// available slot under a mutex and then sleeps until the slot arrives.
//
//	limiter := ratelimit.New(500 * time.Millisecond)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // context cancelled while waiting
//	}
//	// issue the request
//
// Concurrent callers are admitted in reservation order; N back-to-back
// requests take at least (N-1) intervals of wall-clock time.
//
// # Thread Safety
//
// Limiter is safe for concurrent use. The clock and sleep functions are
// injectable so tests can drive timing deterministically.
package ratelimit
