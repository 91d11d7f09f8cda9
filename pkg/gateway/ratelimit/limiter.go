package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SleepFunc blocks for the given duration or until the context is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Limiter spaces outbound requests at least a minimum interval apart.
//
// Each Wait reserves the next free slot and sleeps until it arrives, so
// concurrent callers form a queue rather than racing. A zero or negative
// minimum interval disables spacing entirely.
type Limiter struct {
	minInterval time.Duration

	// mu protects next and last
	mu sync.Mutex

	// next is the earliest time the next request may be issued
	next time.Time

	// last is when the most recent slot was granted
	last time.Time

	now   func() time.Time
	sleep SleepFunc
}

// New creates a limiter using the real clock.
func New(minInterval time.Duration) *Limiter {
	return NewWithClock(minInterval, time.Now, sleepContext)
}

// NewWithClock creates a limiter with a caller-supplied clock and sleep
// function. Tests use this to drive timing deterministically.
func NewWithClock(minInterval time.Duration, now func() time.Time, sleep SleepFunc) *Limiter {
	return &Limiter{
		minInterval: minInterval,
		now:         now,
		sleep:       sleep,
	}
}

// Wait blocks until the caller may issue a request. It returns the context
// error if the context is cancelled before the slot arrives; the reserved
// slot is not returned to the queue in that case, which keeps the spacing
// guarantee conservative.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if l.minInterval <= 0 {
		return nil
	}

	l.mu.Lock()
	now := l.now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	l.next = at.Add(l.minInterval)
	l.last = at
	l.mu.Unlock()

	if delay := at.Sub(now); delay > 0 {
		return l.sleep(ctx, delay)
	}
	return nil
}

// MinInterval returns the configured spacing.
func (l *Limiter) MinInterval() time.Duration {
	return l.minInterval
}

// LastGranted returns when the most recent request slot was granted.
// It returns the zero time before the first Wait.
func (l *Limiter) LastGranted() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// sleepContext sleeps for d, honoring context cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
