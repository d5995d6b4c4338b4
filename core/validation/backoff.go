// ABOUTME: Exponential backoff schedule for retryable validation failures
// ABOUTME: Jittered delays prevent thundering-herd retries across concurrent validations

package validation

import (
	"context"
	"math/rand"
	"time"
)

// maxJitter is the upper bound of the random component added to each delay.
const maxJitter = 500 * time.Millisecond

// backoffDelay returns the delay before retry n (1-indexed):
// base * 2^(n-1) + jitter(0..500ms), capped at cap.
func backoffDelay(retry int, base, cap time.Duration, jitter func() time.Duration) time.Duration {
	if retry < 1 {
		retry = 1
	}
	delay := base * (1 << uint(retry-1))
	delay += jitter()
	if delay > cap {
		delay = cap
	}
	return delay
}

// defaultJitter draws a uniform delay in [0, maxJitter].
func defaultJitter() time.Duration {
	return time.Duration(rand.Int63n(int64(maxJitter) + 1))
}

// sleep waits for d, returning early if ctx is cancelled. Only the calling
// goroutine is suspended.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
