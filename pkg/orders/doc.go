// Package orders holds the in-memory order book: the local view of
// submitted stock-media orders and AI generation jobs.
//
// An order's status only moves forward through its lifecycle
// (pending → processing → a terminal state); stale or out-of-order
// snapshots are rejected rather than applied. The Tracker bridges the
// polling layer and the store, applying polled snapshots as transitions.
package orders
