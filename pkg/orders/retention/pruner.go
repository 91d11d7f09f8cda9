package retention

import (
	"log/slog"
	"time"

	"stockdesk/fulfillment/pkg/config"
	"stockdesk/fulfillment/pkg/orders"
	"stockdesk/fulfillment/pkg/polling"
)

// Pruner removes terminal orders older than the retention age from the
// order book and forgets their finished polling sessions.
type Pruner struct {
	store  *orders.Store
	poller *polling.Poller
	config config.OrdersConfig
	logger *slog.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// NewPruner creates a Pruner over store. The poller may be nil when no
// session cleanup is wanted.
func NewPruner(store *orders.Store, poller *polling.Poller, cfg config.OrdersConfig) *Pruner {
	return &Pruner{
		store:  store,
		poller: poller,
		config: cfg,
		logger: slog.Default().With("component", "retention"),
		now:    time.Now,
	}
}

// Prune runs one pruning cycle and returns how many orders were removed.
func (p *Pruner) Prune() int {
	cutoff := p.now().Add(-p.config.RetentionAge)
	pruned := p.store.PruneTerminal(cutoff)

	if p.poller != nil {
		for _, id := range pruned {
			p.poller.Forget(id)
		}
	}

	if len(pruned) > 0 {
		p.logger.Info("pruned finished orders",
			"count", len(pruned),
			"retention_age", p.config.RetentionAge,
		)
	}
	return len(pruned)
}
