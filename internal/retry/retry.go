// Package retry provides a bounded retry policy with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy retries an operation a fixed number of times, doubling the wait
// between attempts (base, 2*base, 4*base, ...). Retries are local to the
// wrapped call: exhausting the policy returns the last error, it never
// re-triggers anything upstream.
type Policy struct {
	MaxAttempts int
	BackoffBase time.Duration

	// Sleep is swappable for tests; nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs op until it succeeds or attempts are exhausted.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.backoff(attempt-1)); err != nil {
				return err
			}
		}

		if lastErr = op(); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func (p Policy) backoff(n int) time.Duration {
	base := p.BackoffBase
	if base <= 0 {
		base = time.Second
	}
	return base << n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
