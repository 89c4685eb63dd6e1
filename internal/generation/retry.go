package generation

import (
	"context"
	"time"
)

// RetryPolicy is a fixed, ordered schedule of waits applied between attempts.
// A call makes at most 1+len(Delays) attempts.
type RetryPolicy struct {
	Delays []time.Duration
}

// DefaultRetryPolicy waits 1s, 3s and 7s before the three retries.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Delays: []time.Duration{
		1000 * time.Millisecond,
		3000 * time.Millisecond,
		7000 * time.Millisecond,
	}}
}

// MaxAttempts returns the total number of attempts the policy allows.
func (p RetryPolicy) MaxAttempts() int {
	return 1 + len(p.Delays)
}

// Delay returns the wait before retry i (zero-based), clamped to the last entry.
func (p RetryPolicy) Delay(i int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(p.Delays) {
		i = len(p.Delays) - 1
	}
	return p.Delays[i]
}

// SleepFunc suspends the calling goroutine for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext is the default SleepFunc.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
