package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(maxFailures, halfOpen int) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(&BreakerConfig{MaxFailures: maxFailures, Timeout: time.Minute, HalfOpenMaxCalls: halfOpen})
	cb.now = clock.Now
	return cb, clock
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(2, 1)

	_ = cb.Execute(func() error { return fmt.Errorf("first") })
	if cb.State() != BreakerClosed {
		t.Errorf("Expected state to be closed after first failure, got %v", cb.State())
	}

	_ = cb.Execute(func() error { return fmt.Errorf("second") })
	if cb.State() != BreakerOpen {
		t.Errorf("Expected state to be open after reaching failure threshold, got %v", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("Operation should not be executed when circuit is open")
		return nil
	})
	if err != ErrBreakerOpen {
		t.Errorf("Expected ErrBreakerOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(2, 1)

	_ = cb.Execute(func() error { return fmt.Errorf("failure") })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return fmt.Errorf("failure") })

	if cb.State() != BreakerClosed {
		t.Errorf("Expected non-consecutive failures to keep the breaker closed, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb, clock := newTestBreaker(1, 1)
	_ = cb.Execute(func() error { return fmt.Errorf("failure") })

	clock.Advance(time.Minute)

	executed := false
	if err := cb.Execute(func() error { executed = true; return nil }); err != nil {
		t.Errorf("Expected probe to succeed, got %v", err)
	}
	if !executed {
		t.Error("Expected probe to run after the timeout")
	}
	if cb.State() != BreakerClosed {
		t.Errorf("Expected successful probe to close the breaker, got %v", cb.State())
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, 1)
	_ = cb.Execute(func() error { return fmt.Errorf("failure") })

	clock.Advance(time.Minute)
	_ = cb.Execute(func() error { return fmt.Errorf("still down") })

	if cb.State() != BreakerOpen {
		t.Errorf("Expected failed probe to reopen the breaker, got %v", cb.State())
	}
	if err := cb.Execute(func() error { return nil }); err != ErrBreakerOpen {
		t.Errorf("Expected reopened breaker to reject calls, got %v", err)
	}
}

func TestCircuitBreaker_Concurrency(t *testing.T) {
	cb := NewCircuitBreaker(&BreakerConfig{MaxFailures: 5, Timeout: 100 * time.Millisecond, HalfOpenMaxCalls: 3})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = cb.Execute(func() error {
					if (id+j)%3 == 0 {
						return fmt.Errorf("failure %d-%d", id, j)
					}
					return nil
				})
			}
		}(i)
	}
	wg.Wait()

	stats := cb.Stats()
	if _, ok := stats["state"].(string); !ok {
		t.Errorf("Expected state in stats, got %v", stats)
	}
}
