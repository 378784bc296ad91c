package ratelimit

import (
	"context"
	"errors"
	"log"
)

// Fallback asks primary through a circuit breaker and answers from
// secondary whenever primary errors or the breaker is open.
type Fallback struct {
	primary   Limiter
	secondary Limiter
	breaker   *CircuitBreaker
}

func NewFallback(primary, secondary Limiter, breaker *CircuitBreaker) *Fallback {
	if breaker == nil {
		breaker = NewCircuitBreaker(nil)
	}
	return &Fallback{primary: primary, secondary: secondary, breaker: breaker}
}

func (f *Fallback) Allow(ctx context.Context, key string) (Decision, error) {
	var decision Decision
	err := f.breaker.Execute(func() error {
		d, err := f.primary.Allow(ctx, key)
		decision = d
		return err
	})
	if err == nil {
		return decision, nil
	}
	if !errors.Is(err, ErrBreakerOpen) {
		log.Printf("⚠️ Rate limiter backend failed, using local limiter: %v", err)
	}
	return f.secondary.Allow(ctx, key)
}

func (f *Fallback) Breaker() *CircuitBreaker {
	return f.breaker
}
