package polling

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stockdesk/fulfillment/pkg/gateway"
)

// batchFetchConcurrency bounds in-flight fetches within one batch round.
// The gateway's rate limiter spaces the requests anyway; this only caps
// goroutine fan-out for very large batches.
const batchFetchConcurrency = 8

// Outcome is the per-job result of a batch poll: the job's last observed
// snapshot, and the error that removed it from the batch if it never
// reached a terminal status. A timed-out job carries both.
type Outcome struct {
	// Snapshot is the job's last observed state, nil if no fetch ever
	// succeeded.
	Snapshot *Snapshot

	// Err is set when the job left the batch without a terminal status.
	Err error
}

// PollMany polls a set of jobs together until every job has an outcome.
// All jobs in a round are fetched concurrently; rounds repeat on the batch
// interval. Jobs are independent: one job's failure never aborts the
// others. The call returns when every job reached a terminal status,
// failed permanently, or the polling ceiling expired.
func (p *Poller) PollMany(ctx context.Context, jobIDs []string) map[string]*Outcome {
	outcomes := make(map[string]*Outcome, len(jobIDs))
	pending := make([]string, 0, len(jobIDs))
	for _, id := range jobIDs {
		if id == "" {
			continue
		}
		if _, dup := outcomes[id]; dup {
			continue
		}
		outcomes[id] = &Outcome{}
		pending = append(pending, id)
	}
	if len(pending) == 0 {
		return outcomes
	}

	started := time.Now()
	deadline := time.NewTimer(p.opts.MaxPollingTime)
	defer deadline.Stop()

	p.logger.Debug("batch polling started",
		"jobs", len(pending),
		"batch_interval", p.opts.BatchInterval,
	)

	for {
		pending = p.batchRound(ctx, pending, outcomes)
		if len(pending) == 0 {
			return outcomes
		}

		select {
		case <-ctx.Done():
			for _, id := range pending {
				outcomes[id].Err = ctx.Err()
			}
			return outcomes

		case <-deadline.C:
			elapsed := time.Since(started)
			for _, id := range pending {
				outcomes[id].Err = &TimeoutError{JobID: id, Elapsed: elapsed}
			}
			p.logger.Warn("batch polling timed out",
				"jobs_unresolved", len(pending),
				"elapsed", elapsed,
			)
			return outcomes

		case <-time.After(p.opts.BatchInterval):
		}
	}
}

// batchRound fetches every pending job once and returns the jobs still
// pending after the round.
func (p *Poller) batchRound(ctx context.Context, pending []string, outcomes map[string]*Outcome) []string {
	var mu sync.Mutex
	still := make([]string, 0, len(pending))

	var g errgroup.Group
	g.SetLimit(batchFetchConcurrency)

	for _, id := range pending {
		id := id
		g.Go(func() error {
			snapshot, err := p.fetch(ctx, id)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				p.metrics.RecordTick("error")
				if gateway.IsRetryable(err) && p.opts.ContinueOnError {
					p.logger.Warn("batch status fetch failed, will retry",
						"job_id", id,
						"error", err,
					)
					still = append(still, id)
					return nil
				}
				outcomes[id].Err = err
				p.logger.Error("batch status fetch removed job",
					"job_id", id,
					"retryable", gateway.IsRetryable(err),
					"error", err,
				)
				return nil
			}

			if snapshot.FetchedAt.IsZero() {
				snapshot.FetchedAt = time.Now()
			}
			outcomes[id].Snapshot = snapshot

			if snapshot.Status.Terminal() {
				p.metrics.RecordTick("terminal")
			} else {
				p.metrics.RecordTick("changed")
				still = append(still, id)
			}

			if p.opts.OnSnapshot != nil {
				p.opts.OnSnapshot(snapshot)
			}
			if snapshot.Status.Terminal() && p.opts.OnComplete != nil {
				p.opts.OnComplete(snapshot)
			}
			return nil
		})
	}

	g.Wait()
	return still
}
