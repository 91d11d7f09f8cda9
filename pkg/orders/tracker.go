package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"stockdesk/fulfillment/pkg/polling"
)

// Tracker ties the order book to the polling layer: it records
// submissions, starts a polling session per order, and applies delivered
// snapshots as store transitions. Rejected transitions (stale or
// out-of-order snapshots) are logged and dropped, never applied.
type Tracker struct {
	store  *Store
	poller *polling.Poller
	logger *slog.Logger
}

// NewTracker creates a Tracker over store. The poller's snapshots are
// expected to carry the tracked order IDs as their job IDs. Logger may
// be nil.
func NewTracker(store *Store, poller *polling.Poller, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		store:  store,
		poller: poller,
		logger: logger.With("component", "tracker"),
	}
}

// Track records a freshly submitted order and starts polling it. The
// returned session ends when the order reaches a terminal state.
func (t *Tracker) Track(ctx context.Context, id string, kind Kind, cost decimal.Decimal) (*polling.Session, error) {
	if _, err := t.store.Create(id, kind, cost); err != nil {
		return nil, err
	}

	session, err := t.poller.Start(ctx, id)
	if err != nil {
		return nil, err
	}

	t.logger.Info("tracking order",
		"order_id", id,
		"kind", kind,
		"cost", cost,
	)
	return session, nil
}

// Apply advances the tracked order from a polled snapshot. Stale
// snapshots are dropped without error; unknown orders are reported.
func (t *Tracker) Apply(snapshot *polling.Snapshot) {
	if snapshot == nil {
		return
	}

	order, err := t.store.Apply(snapshot)
	if err != nil {
		var terr *TransitionError
		if errors.As(err, &terr) {
			t.logger.Warn("dropping stale status snapshot",
				"order_id", snapshot.JobID,
				"from", terr.From,
				"to", terr.To,
			)
			return
		}
		t.logger.Warn("snapshot for unknown order",
			"order_id", snapshot.JobID,
		)
		return
	}

	if order.Terminal() {
		t.logger.Info("order finished",
			"order_id", order.ID,
			"status", order.Status,
			"files", len(order.ResultFiles),
		)
	}
}

// Stop ends polling for one order without removing it from the book.
func (t *Tracker) Stop(id string) {
	t.poller.Stop(id)
}

// Close stops every polling session the tracker started.
func (t *Tracker) Close() {
	t.poller.StopAll()
}
