package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// hookRate throttles hook management calls. They are rare; the bucket
	// only stops a loop from burning the hourly quota.
	hookRate = 2

	// minBuffer is the remaining-request floor below which calls wait for reset.
	minBuffer = 10

	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
	headerRetryAfter    = "Retry-After"
)

// RateLimiter combines a token bucket with the quota GitHub reports in
// response headers.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
}

// NewRateLimiter creates a limiter that assumes a full quota until the
// first response says otherwise.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: -1,
		limit:     -1,
		bucket:    rate.NewLimiter(rate.Limit(hookRate), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining, resetTime := r.remaining, r.resetTime
	r.mu.Unlock()

	if remaining < 0 || remaining >= minBuffer || !time.Now().Before(resetTime) {
		return nil
	}

	timer := time.NewTimer(time.Until(resetTime))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Observe records the quota headers of resp.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if val, err := strconv.Atoi(resp.Header.Get(headerRateRemaining)); err == nil {
		r.remaining = val
	}
	if val, err := strconv.Atoi(resp.Header.Get(headerRateLimit)); err == nil {
		r.limit = val
	}
	if val, err := strconv.ParseInt(resp.Header.Get(headerRateReset), 10, 64); err == nil {
		r.resetTime = time.Unix(val, 0)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		if seconds, err := strconv.Atoi(resp.Header.Get(headerRetryAfter)); err == nil {
			r.resetTime = time.Now().Add(time.Duration(seconds) * time.Second)
			r.remaining = 0
		}
	}
}

// Remaining returns the last reported remaining requests, or -1 if unknown.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the last reported limit, or -1 if unknown.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the last reported reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
