package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	stop     chan struct{}
	once     sync.Once
}

// NewLocalLimiter refills perMinute tokens a minute. Buckets idle for
// longer than cleanup are dropped.
func NewLocalLimiter(perMinute, burst int, cleanup time.Duration) *LocalLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &LocalLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		stop:     make(chan struct{}),
	}
	if cleanup > 0 {
		go l.cleanupLoop(cleanup)
	}
	return l
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return Decision{Allowed: false, Limit: l.burst}, nil
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return Decision{Allowed: false, Limit: l.burst, RetryAfter: delay}, nil
	}
	remaining := int(math.Floor(v.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: l.burst, Remaining: remaining}, nil
}

func (l *LocalLimiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

func (l *LocalLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.evictIdle(now.Add(-interval))
		}
	}
}

func (l *LocalLimiter) evictIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}
