package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock advances instantly through sleeps and records how long each
// Wait would have slept.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	slept  []time.Duration
	cancel map[int]bool // sleep indexes that should report cancellation
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := len(c.slept)
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)

	if c.cancel[index] {
		return context.Canceled
	}
	return nil
}

func (c *fakeClock) totalSlept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total time.Duration
	for _, d := range c.slept {
		total += d
	}
	return total
}

func TestLimiter_SpacesConsecutiveCalls(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(500*time.Millisecond, clock.Now, clock.Sleep)

	const calls = 5
	for i := 0; i < calls; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
	}

	// N calls must be spaced by at least (N-1) intervals.
	want := time.Duration(calls-1) * 500 * time.Millisecond
	if got := clock.totalSlept(); got < want {
		t.Errorf("Expected at least %v of enforced delay, got %v", want, got)
	}
}

func TestLimiter_FirstCallDoesNotWait(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(time.Second, clock.Now, clock.Sleep)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if got := clock.totalSlept(); got != 0 {
		t.Errorf("First call should not sleep, slept %v", got)
	}
}

func TestLimiter_IdleGapAbsorbsDelay(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(time.Second, clock.Now, clock.Sleep)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	// Simulate the caller idling well past the interval.
	clock.mu.Lock()
	clock.now = clock.now.Add(5 * time.Second)
	clock.mu.Unlock()

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if got := clock.totalSlept(); got != 0 {
		t.Errorf("Call after a long idle gap should not sleep, slept %v", got)
	}
}

func TestLimiter_ZeroIntervalDisablesSpacing(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(0, clock.Now, clock.Sleep)

	for i := 0; i < 10; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}

	if got := clock.totalSlept(); got != 0 {
		t.Errorf("Zero interval should never sleep, slept %v", got)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	limiter := New(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLimiter_CancelledWhileSleeping(t *testing.T) {
	limiter := New(5 * time.Second)

	// Take the first slot so the second Wait must sleep.
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := limiter.Wait(ctx)
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("Wait should return promptly on cancellation, took %v", elapsed)
	}
}

func TestLimiter_ConcurrentCallersAreSerialized(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(100*time.Millisecond, clock.Now, clock.Sleep)

	var wg sync.WaitGroup
	const callers = 8

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Wait(context.Background()); err != nil {
				t.Errorf("Wait failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// Every caller after the first must be pushed out by at least one
	// interval; total enforced delay is at least (callers-1) intervals.
	want := time.Duration(callers-1) * 100 * time.Millisecond
	if got := clock.totalSlept(); got < want {
		t.Errorf("Expected at least %v of enforced delay, got %v", want, got)
	}
}
