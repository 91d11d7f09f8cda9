package polling

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"stockdesk/fulfillment/pkg/gateway"
	"stockdesk/fulfillment/pkg/telemetry/metrics"
)

// Poller runs status polling sessions, at most one live session per job.
type Poller struct {
	fetch   FetchFunc
	opts    Options
	metrics *metrics.PollingMetrics
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates a Poller around fetch. Metrics and logger may be nil.
func New(fetch FetchFunc, opts Options, pm *metrics.PollingMetrics, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		fetch:    fetch,
		opts:     opts.withDefaults(),
		metrics:  pm,
		logger:   logger.With("component", "poller"),
		sessions: make(map[string]*Session),
	}
}

// Start begins polling jobID and returns its session. If a session for the
// job is already running, or has already observed a terminal status, that
// session is returned instead of starting a second one; callers get the
// cached terminal snapshot through Session.Wait without another fetch.
func (p *Poller) Start(ctx context.Context, jobID string) (*Session, error) {
	if jobID == "" {
		return nil, errors.New("polling: job ID must not be empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.sessions[jobID]; ok {
		if existing.running() || existing.completed() {
			return existing, nil
		}
		// Stopped or errored before reaching a terminal state: replace.
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		jobID:     jobID,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	p.sessions[jobID] = s

	go p.run(sessionCtx, s)
	return s, nil
}

// Stop ends the session for jobID, if one exists. Safe to call for unknown
// jobs and safe to call more than once.
func (p *Poller) Stop(jobID string) {
	p.mu.Lock()
	s, ok := p.sessions[jobID]
	p.mu.Unlock()
	if ok {
		s.Stop()
	}
}

// StopAll ends every live session.
func (p *Poller) StopAll() {
	p.mu.Lock()
	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}

// Forget stops and drops the session for jobID. A later Start for the
// same job begins a fresh session even if the old one saw a terminal
// status.
func (p *Poller) Forget(jobID string) {
	p.mu.Lock()
	s, ok := p.sessions[jobID]
	delete(p.sessions, jobID)
	p.mu.Unlock()
	if ok {
		s.Stop()
	}
}

// Session returns the tracked session for jobID, if any.
func (p *Poller) Session(jobID string) (*Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[jobID]
	return s, ok
}

// run is the session loop: an immediate fetch, then one per interval,
// bounded by the polling ceiling. The ceiling is measured from Start and
// is not reset by absorbed fetch failures.
func (p *Poller) run(ctx context.Context, s *Session) {
	p.metrics.SessionStarted()
	defer func() {
		p.metrics.SessionEnded(time.Since(s.startedAt))
		s.cancel()
		close(s.done)
	}()

	p.logger.Debug("polling session started",
		"job_id", s.jobID,
		"interval", p.opts.Interval,
		"max_polling_time", p.opts.MaxPollingTime,
	)

	deadline := time.NewTimer(p.opts.MaxPollingTime)
	defer deadline.Stop()
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		if p.poll(ctx, s) {
			return
		}

		select {
		case <-ctx.Done():
			s.end(ctx.Err())
			return

		case <-deadline.C:
			err := &TimeoutError{JobID: s.jobID, Elapsed: time.Since(s.startedAt)}
			s.end(err)
			p.logger.Warn("polling session timed out",
				"job_id", s.jobID,
				"elapsed", err.Elapsed,
			)
			return

		case <-ticker.C:
		}
	}
}

// poll performs one fetch and delivers its result. It returns true when
// the session is finished.
func (p *Poller) poll(ctx context.Context, s *Session) bool {
	snapshot, err := p.fetch(ctx, s.jobID)

	// A Stop racing with the fetch wins: whatever came back is discarded.
	s.mu.Lock()
	s.attempts++
	if s.stopped {
		s.mu.Unlock()
		p.metrics.RecordTick("discarded")
		return true
	}

	if err != nil {
		if gateway.IsRetryable(err) && p.opts.ContinueOnError {
			s.mu.Unlock()
			p.metrics.RecordTick("error")
			p.logger.Warn("status fetch failed, will retry",
				"job_id", s.jobID,
				"error", err,
			)
			return false
		}
		s.err = err
		s.mu.Unlock()
		p.metrics.RecordTick("error")
		p.logger.Error("status fetch ended the session",
			"job_id", s.jobID,
			"retryable", gateway.IsRetryable(err),
			"error", err,
		)
		return true
	}

	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now()
	}

	statusChanged := s.last == nil || s.last.Status != snapshot.Status
	s.last = snapshot
	s.mu.Unlock()

	switch {
	case snapshot.Status.Terminal():
		p.metrics.RecordTick("terminal")
	case statusChanged:
		p.metrics.RecordTick("changed")
	default:
		p.metrics.RecordTick("unchanged")
	}

	if p.opts.OnSnapshot != nil {
		p.opts.OnSnapshot(snapshot)
	}
	if statusChanged && p.opts.OnStatusChange != nil {
		p.opts.OnStatusChange(snapshot)
	}
	if snapshot.Status.Terminal() {
		p.logger.Info("job reached terminal status",
			"job_id", s.jobID,
			"status", snapshot.Status,
		)
		if p.opts.OnComplete != nil {
			p.opts.OnComplete(snapshot)
		}
		return !p.opts.ContinueAfterTerminal
	}
	return false
}

// Session is one job's polling loop.
type Session struct {
	jobID     string
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}

	mu       sync.Mutex
	stopped  bool
	attempts int
	last     *Snapshot
	err      error
}

// JobID returns the job this session polls.
func (s *Session) JobID() string {
	return s.jobID
}

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Elapsed returns how long the session has been (or was) polling.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.startedAt)
}

// Attempts returns how many fetches the session has performed.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Active reports whether the session loop is still running.
func (s *Session) Active() bool {
	return s.running()
}

// Stop ends the session. It is idempotent and returns without waiting for
// the loop to exit; use Done or Wait for that. A fetch already in flight
// completes but its result is discarded.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()
	s.cancel()
}

// Done is closed when the session loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends and returns the last delivered
// snapshot and the session's error, if any. A session that observed a
// terminal status returns that snapshot with a nil error.
func (s *Session) Wait(ctx context.Context) (*Snapshot, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.err
}

// Last returns the most recent delivered snapshot, which may be nil.
func (s *Session) Last() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Err returns the session error, if the session has ended with one.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) running() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Session) completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last != nil && s.last.Status.Terminal()
}

// end records err unless the session was explicitly stopped first.
func (s *Session) end(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.err = err
}
