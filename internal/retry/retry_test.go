package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoStopsAfterFirstSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	p := Policy{MaxAttempts: 3, BackoffBase: time.Second,
		Sleep: func(context.Context, time.Duration) error { return nil }}

	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoExhaustsAttemptsWithExponentialBackoff(t *testing.T) {
	t.Parallel()

	var waits []time.Duration
	calls := 0
	p := Policy{MaxAttempts: 3, BackoffBase: time.Second,
		Sleep: func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		}}

	transport := errors.New("connection reset")
	err := p.Do(context.Background(), func() error {
		calls++
		return transport
	})

	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
	if !errors.Is(err, transport) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}

	want := []time.Duration{time.Second, 2 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), waits)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("sleep %d = %v, want %v", i, waits[i], want[i])
		}
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{MaxAttempts: 3, BackoffBase: time.Millisecond}
	err := p.Do(ctx, func() error { return errors.New("boom") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
