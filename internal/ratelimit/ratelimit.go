// Package ratelimit spaces out requests to each listings host.
package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/jobsift/internal/model"
)

// HostRateLimiter enforces a minimum delay between requests to the same host.
type HostRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: host
	minDelay time.Duration
}

// NewHostRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same host. A zero delay never blocks.
func NewHostRateLimiter(minDelay time.Duration) *HostRateLimiter {
	return &HostRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
	}
}

func (r *HostRateLimiter) limiter(host string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(r.minDelay), 1)
		r.limiters[host] = l
	}
	return l
}

// Wait blocks until a request to host is allowed.
// Returns an error if the context is cancelled while waiting.
func (r *HostRateLimiter) Wait(ctx context.Context, host string) error {
	if err := r.limiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

var _ model.PageFetcher = (*RateLimitedFetcher)(nil)

// RateLimitedFetcher is a decorator that waits on the host's limiter before
// delegating to the wrapped PageFetcher.
type RateLimitedFetcher struct {
	inner   model.PageFetcher
	limiter *HostRateLimiter
}

// NewRateLimitedFetcher wraps a PageFetcher with host-level rate limiting.
func NewRateLimitedFetcher(inner model.PageFetcher, limiter *HostRateLimiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{inner: inner, limiter: limiter}
}

// Fetch waits for the rate limiter to allow a request to the url's host,
// then delegates to the wrapped fetcher.
func (f *RateLimitedFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if err := f.limiter.Wait(ctx, u.Host); err != nil {
		return "", err
	}
	return f.inner.Fetch(ctx, rawURL)
}
