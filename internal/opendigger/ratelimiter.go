package opendigger

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
)

const (
	defaultRetryAfter = time.Second
	maxRetryAfter     = 10 * time.Second
)

// * RateLimiter backs off when the upstream answers 429. Any
// * X-RateLimit-* headers are tracked so the next request waits for the reset
type RateLimiter struct {
	mu          sync.Mutex
	remaining   int
	reset       time.Time
	retryAfter  time.Duration
	maxWait     time.Duration
	retryStatus int
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining:   -1,
		retryAfter:  defaultRetryAfter,
		maxWait:     maxRetryAfter,
		retryStatus: http.StatusTooManyRequests,
	}
}

// * pendingWait returns how long the caller should wait before sending
func (r *RateLimiter) pendingWait(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remaining != 0 || !now.Before(r.reset) {
		return 0
	}
	return min(r.reset.Sub(now), r.maxWait)
}

func (r *RateLimiter) updateFromHeaders(headers http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := headers.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if reset := headers.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.reset = time.Unix(val, 0)
		}
	}

	r.retryAfter = defaultRetryAfter
	if retry := headers.Get("Retry-After"); retry != "" {
		if seconds, err := strconv.Atoi(retry); err == nil && seconds >= 0 {
			r.retryAfter = min(time.Duration(seconds)*time.Second, r.maxWait)
		}
	}
}

func (r *RateLimiter) currentRetryAfter() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAfter
}

func (r *RateLimiter) Middleware(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if wait := r.pendingWait(time.Now()); wait > 0 {
			logger.Warn("[RateLimiter] Rate limit exhausted. Waiting %v", wait)
			if err := sleepCtx(req, wait); err != nil {
				return nil, err
			}
		}

		resp, err := next.RoundTrip(req)
		if err != nil {
			logger.Error("Network error in RoundTrip: %v", err)
			return nil, err
		}

		r.updateFromHeaders(resp.Header)

		// * Retry once on 429
		if resp.StatusCode == r.retryStatus {
			wait := r.currentRetryAfter()
			resp.Body.Close()
			logger.Warn("[RateLimiter] Received 429 for %s. Retrying after %v...", req.URL.Path, wait)
			if err := sleepCtx(req, wait); err != nil {
				return nil, err
			}
			return next.RoundTrip(req)
		}

		return resp, nil
	})
}

func sleepCtx(req *http.Request, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-req.Context().Done():
		return req.Context().Err()
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
