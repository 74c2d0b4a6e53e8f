package retrylimit

import (
	"context"
	"errors"
	"testing"
)

type statusErr struct {
	code int
}

func (e *statusErr) Error() string   { return "status error" }
func (e *statusErr) StatusCode() int { return e.code }

func TestWithRetryMaxSucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := WithRetryMax(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &statusErr{code: 429}
		}
		return nil
	}, nil, 5)
	if err != nil {
		t.Fatalf("WithRetryMax: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetryMaxStopsOnFatal(t *testing.T) {
	fatal := &FatalError{Err: errors.New("bad request")}
	attempts := 0
	err := WithRetryMax(context.Background(), func() error {
		attempts++
		return fatal
	}, nil, 5)
	if !errors.Is(err, fatal.Err) {
		t.Fatalf("err = %v, want wrapped %v", err, fatal.Err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestWithRetryMaxHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetryMax(ctx, func() error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	}, nil, 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAdaptiveLimiterAdjustsWithinBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 2, 0.5)

	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 2 {
		t.Fatalf("limit after RateLimited = %v, want 2", got)
	}
	lim.RateLimited()
	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("limit must not drop below min, got %v", got)
	}
}

func TestAdaptiveLimiterSuccessWaitsOutErrorWindow(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 2, 0.5)

	lim.RateLimited()
	lim.Success()
	if got := lim.CurrentLimit(); got != 2 {
		t.Fatalf("limit must not rise right after an error, got %v", got)
	}
}
