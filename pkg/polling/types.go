package polling

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Status is the normalized lifecycle state of a polled job. Stock-media
// orders and AI generation jobs report different raw states; fetchers map
// them onto this shared set.
type Status string

const (
	// StatusPending means the job is accepted but not yet running.
	StatusPending Status = "pending"

	// StatusProcessing means the job is actively being worked on.
	StatusProcessing Status = "processing"

	// StatusCompleted means the job finished and its results are available.
	StatusCompleted Status = "completed"

	// StatusFailed means the job ended with an error.
	StatusFailed Status = "failed"

	// StatusCancelled means the job was cancelled server-side.
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status ends a job's lifecycle. Polling a
// job stops as soon as a terminal status is observed.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Snapshot is one observed state of a polled job.
type Snapshot struct {
	// JobID identifies the polled job.
	JobID string

	// Status is the normalized job state.
	Status Status

	// Progress is percent complete (0-100) when the server reports it.
	Progress int

	// Files holds result file URLs once the job completes.
	Files []string

	// Message carries additional server context (e.g., an error reason).
	Message string

	// FetchedAt is when this snapshot was observed.
	FetchedAt time.Time
}

// FetchFunc retrieves the current state of one job. Implementations wrap
// a gateway call and map the raw server status onto the Status set.
type FetchFunc func(ctx context.Context, jobID string) (*Snapshot, error)

// Options tunes a Poller. Zero values take the documented defaults.
type Options struct {
	// Interval is the delay between status fetches for a single job.
	// Defaults to 2s.
	Interval time.Duration

	// MaxPollingTime is the ceiling on how long one session runs before
	// it gives up with a TimeoutError. Defaults to 30m. A timeout ends
	// the session only; the job itself is not marked failed.
	MaxPollingTime time.Duration

	// BatchInterval is the delay between fetch rounds when polling a set
	// of jobs together. Defaults to 5s.
	BatchInterval time.Duration

	// ContinueOnError keeps a session alive through retryable fetch
	// failures: the failed tick is absorbed and the next one proceeds.
	// By default the first fetch failure ends the session. Failures
	// classified non-retryable always end it, regardless of this flag.
	ContinueOnError bool

	// ContinueAfterTerminal keeps a session ticking after it observes a
	// terminal status, for callers that watch jobs the server may still
	// mutate. By default a terminal status ends the session.
	ContinueAfterTerminal bool

	// OnSnapshot is invoked for every delivered snapshot. Optional.
	OnSnapshot func(*Snapshot)

	// OnStatusChange is invoked only when a snapshot's status differs
	// from the previously delivered one, including the first snapshot.
	// Optional.
	OnStatusChange func(*Snapshot)

	// OnComplete is invoked when a session delivers a terminal snapshot.
	// Optional.
	OnComplete func(*Snapshot)
}

// withDefaults fills in unset options.
func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = 2 * time.Second
	}
	if o.MaxPollingTime <= 0 {
		o.MaxPollingTime = 30 * time.Minute
	}
	if o.BatchInterval <= 0 {
		o.BatchInterval = 5 * time.Second
	}
	return o
}

// TimeoutError reports a session that exceeded its polling ceiling
// without reaching a terminal state. The job may still complete
// server-side; callers can start a fresh session later.
type TimeoutError struct {
	// JobID is the job whose session timed out.
	JobID string

	// Elapsed is how long the session polled before giving up.
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("polling for job %s gave up after %s without a terminal status", e.JobID, e.Elapsed)
}

// IsTimeout reports whether err is a polling timeout.
func IsTimeout(err error) bool {
	var terr *TimeoutError
	return errors.As(err, &terr)
}
