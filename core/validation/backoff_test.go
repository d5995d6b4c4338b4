package validation

import (
	"context"
	"testing"
	"time"
)

func TestBackoffDelay_ExponentialSchedule(t *testing.T) {
	base := time.Second
	cap := 10 * time.Second

	tests := []struct {
		retry int
		want  time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
	}

	for _, tt := range tests {
		got := backoffDelay(tt.retry, base, cap, func() time.Duration { return 0 })
		if got != tt.want {
			t.Errorf("backoffDelay(%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}

func TestBackoffDelay_JitterBounds(t *testing.T) {
	base := time.Second
	cap := 10 * time.Second

	for retry := 1; retry <= 3; retry++ {
		for i := 0; i < 50; i++ {
			got := backoffDelay(retry, base, cap, defaultJitter)
			lo := base * (1 << uint(retry-1))
			hi := lo + maxJitter
			if got < lo || got > hi {
				t.Fatalf("backoffDelay(%d) = %v, want in [%v, %v]", retry, got, lo, hi)
			}
		}
	}
}

func TestBackoffDelay_Cap(t *testing.T) {
	got := backoffDelay(10, time.Second, 10*time.Second, defaultJitter)
	if got != 10*time.Second {
		t.Errorf("backoffDelay(10) = %v, want capped at 10s", got)
	}
}

func TestSleep_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleep(ctx, time.Minute)

	if err == nil {
		t.Error("sleep should return the context error when cancelled")
	}
	if time.Since(start) > time.Second {
		t.Error("sleep did not return promptly after cancellation")
	}
}
