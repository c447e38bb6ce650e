package utils

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/storydeck/marketplace/storydeck/config"
)

// RetryPolicy describes exponential backoff between attempts.
type RetryPolicy struct {
	// MaxRetries counts attempts after the first; zero runs fn exactly once.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Factor         float64
	Jitter         bool
}

// TxRetryPolicy is the policy stores use for serialization conflicts.
func TxRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:     maxRetries,
		InitialBackoff: config.TxRetryInitialBackoff,
		MaxBackoff:     config.TxRetryMaxBackoff,
		Factor:         config.TxRetryBackoffFactor,
		Jitter:         true,
	}
}

// backoff returns the wait before retry number attempt (1-indexed).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.InitialBackoff
	if d <= 0 {
		d = config.TxRetryInitialBackoff
	}
	factor := p.Factor
	if factor < 1 {
		factor = 2
	}
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * factor)
		if p.MaxBackoff > 0 && d > p.MaxBackoff {
			d = p.MaxBackoff
			break
		}
	}
	if p.Jitter && d > 1 {
		d += time.Duration(rand.Int63n(int64(d / 2)))
	}
	return d
}

// Retry runs fn until it succeeds, returns an error retryable rejects, the
// policy is exhausted, or ctx is done. onRetry may be nil.
func Retry(ctx context.Context, p RetryPolicy, retryable func(error) bool, onRetry func(attempt int, err error), fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if onRetry != nil {
				onRetry(attempt, lastErr)
			}
			timer := time.NewTimer(p.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("gave up after %d attempts: %w", attempt, lastErr)
			case <-timer.C:
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("retries exhausted after %d attempts: %w", p.MaxRetries+1, lastErr)
}
