// Package retrylimit provides an adaptive rate limiter and a retry helper
// for outbound calls against rate-limited services. The limiter speeds up
// while calls succeed and backs off when the remote pushes back.
//
// Example:
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5)
//	err := retrylimit.WithRetryMax(ctx, func() error { return doRequest() }, lim, 3)
package retrylimit

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AdaptiveLimiter adjusts its rate based on call outcomes: Success nudges the
// rate up, RateLimited cuts it down. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter creates a limiter starting at initial requests per
// second, bounded by min and max. stepUp is added on success, stepDown is the
// multiplier applied on failure (0.5 halves the rate).
func NewAdaptiveLimiter(initial, min, max rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial < 1 {
		initial = 1
	}
	if min < 1 {
		min = 1
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.limiter.Wait(ctx)
}

// Success raises the rate, unless a failure happened in the last 10 seconds.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited cuts the rate after the remote signalled overload.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(newLimit rate.Limit) {
	if newLimit > a.maxLimit {
		newLimit = a.maxLimit
	} else if newLimit < a.minLimit {
		newLimit = a.minLimit
	}
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(burstFor(newLimit))
	}
}

func burstFor(l rate.Limit) int {
	if l < 1 {
		return 1
	}
	return int(l)
}

// HTTPError is implemented by errors that carry an HTTP status code. The
// retry loop treats 429 and 5xx specially.
type HTTPError interface {
	error
	StatusCode() int
}

// FatalError wraps an error that must not be retried.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

const (
	initialDelay   = 500 * time.Millisecond
	maxDelay       = 10 * time.Second
	rateLimitDelay = 100 * time.Millisecond
	backoffFactor  = 2.0
)

// WithRetryMax runs fn up to maxAttempts times with exponential backoff and
// jitter, waiting on the limiter before each attempt. It stops early when fn
// succeeds, returns a FatalError, or the context is cancelled.
func WithRetryMax(ctx context.Context, fn func() error, lim *AdaptiveLimiter, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	delay := initialDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}
		if _, fatal := err.(*FatalError); fatal {
			return err
		}

		if isRateLimitError(err) {
			if lim != nil {
				lim.RateLimited()
				log.Printf("[WARN] Rate limited (attempt %d), new limit %.2f rps", attempt, lim.CurrentLimit())
			}
			if sleepErr := sleep(ctx, rateLimitDelay); sleepErr != nil {
				return sleepErr
			}
			continue
		}

		if isServerError(err) && lim != nil {
			lim.RateLimited()
		}
		log.Printf("[WARN] Request failed (attempt %d): %v, sleeping %v", attempt, err, delay)

		if sleepErr := sleep(ctx, withJitter(delay)); sleepErr != nil {
			return sleepErr
		}
		delay = time.Duration(float64(delay) * backoffFactor)
		if delay > maxDelay {
			delay = maxDelay
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded", maxAttempts)
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// withJitter spreads delays by up to 25% so concurrent retries do not land
// at the same instant.
func withJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}

func isRateLimitError(err error) bool {
	if httpErr, ok := err.(HTTPError); ok {
		return httpErr.StatusCode() == http.StatusTooManyRequests
	}
	return false
}

func isServerError(err error) bool {
	if httpErr, ok := err.(HTTPError); ok {
		code := httpErr.StatusCode()
		return code >= 500 && code < 600
	}
	return false
}
