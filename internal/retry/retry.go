// Package retry wraps a page fetcher with a fixed-delay retry policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/jobsift/internal/model"
)

var _ model.PageFetcher = (*RetryFetcher)(nil)

// RetryFetcher is a decorator that retries transient failures after a fixed
// delay before giving up on a results page.
type RetryFetcher struct {
	inner      model.PageFetcher
	maxRetries int
	delay      time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps a PageFetcher with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// delay is the pause before every retry unless the server sent Retry-After.
func NewRetryFetcher(inner model.PageFetcher, maxRetries int, delay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		delay:      delay,
		logger:     logger,
	}
}

// Fetch attempts to fetch url, retrying on transient errors.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.inner.Fetch(ctx, url)
	if err == nil || !isRetryable(err) {
		return body, err
	}

	lastErr := err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		delay := f.retryDelay(lastErr)

		f.logger.Warn("retrying page after transient error",
			"url", url,
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		body, err = f.inner.Fetch(ctx, url)
		if err == nil || !isRetryable(err) {
			return body, err
		}
		lastErr = err
	}

	return "", lastErr
}

// retryDelay prefers the server's Retry-After hint over the fixed delay.
func (f *RetryFetcher) retryDelay(err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}
	return f.delay
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	// Network, DNS and read failures.
	return true
}
