package client

import (
	"context"
	"math/rand"
	"time"
)

// BackoffStrategy defines how to calculate the next wait time.
type BackoffStrategy interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff implements exponential backoff with jitter.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	Jitter float64 // 0.0 to 1.0
}

// DefaultBackoff returns a sensible default strategy.
// Base: 100ms, Max: 5s, Factor: 2.0, Jitter: 0.2
func DefaultBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		Base:   100 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2.0,
		Jitter: 0.2,
	}
}

// Next calculates the wait duration for the given attempt (0-based).
func (b *ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 0 {
		return b.Base
	}

	delay := float64(b.Base)
	for i := 0; i < attempt; i++ {
		delay *= b.Factor
	}

	if delay > float64(b.Max) {
		delay = float64(b.Max)
	}

	if b.Jitter > 0 {
		jitterFactor := (rand.Float64()*2 - 1) * b.Jitter // Range [-Jitter, +Jitter]
		delay += delay * jitterFactor
	}

	if delay < 0 {
		return 0
	}

	return time.Duration(delay)
}

// WaitReady pings the daemon until it answers or attempts run out, backing
// off between tries. Useful right after starting budgetlord-d.
func (c *Client) WaitReady(ctx context.Context, attempts int, strategy BackoffStrategy) error {
	if strategy == nil {
		strategy = DefaultBackoff()
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if _, err := c.Ping(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		select {
		case <-time.After(strategy.Next(i)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
