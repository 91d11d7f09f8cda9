// Package polling drives status polling for in-flight orders and AI jobs.
//
// A Poller owns one polling session per job. A session fetches the job's
// status on a fixed interval until the job reaches a terminal state, the
// session times out, or it is stopped. Sessions never retry transport
// failures themselves: a retryable fetch error is absorbed and the next
// tick tries again, while a non-retryable error ends the session
// immediately.
//
// Stopping is idempotent and race-safe. A fetch that is already in flight
// when Stop is called completes, but its result is discarded rather than
// delivered to callbacks.
package polling
