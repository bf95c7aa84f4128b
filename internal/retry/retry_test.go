package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/jobsift/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockFetcher calls a function on each invocation, tracking call count.
type mockFetcher struct {
	calls int
	fn    func(attempt int) (string, error)
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.fn(m.calls)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) (string, error) {
		return "<html></html>", nil
	}}

	rf := NewRetryFetcher(mock, 1, 10*time.Millisecond, discardLogger())
	got, err := rf.Fetch(context.Background(), "https://example.com/jobs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "<html></html>" {
		t.Fatalf("unexpected body: %q", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return "ok", nil
	}}

	rf := NewRetryFetcher(mock, 1, 10*time.Millisecond, discardLogger())
	got, err := rf.Fetch(context.Background(), "https://example.com/jobs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected body: %q", got)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_RetriesNetworkErrors(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", errors.New("connection reset by peer")
		}
		return "ok", nil
	}}

	rf := NewRetryFetcher(mock, 1, time.Millisecond, discardLogger())
	if _, err := rf.Fetch(context.Background(), "u"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rf.Fetch(context.Background(), "u")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("expected HTTPError with status 404, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	if _, err := rf.Fetch(context.Background(), "u"); err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_ZeroRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 502}
	}}

	rf := NewRetryFetcher(mock, 0, time.Millisecond, discardLogger())
	if _, err := rf.Fetch(context.Background(), "u"); err == nil {
		t.Fatal("expected error, got nil")
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel immediately so the retry sleep is interrupted.
	cancel()

	rf := NewRetryFetcher(mock, 2, time.Second, discardLogger())
	_, err := rf.Fetch(ctx, "u")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestRetryDelay_FixedUnlessRetryAfter(t *testing.T) {
	rf := NewRetryFetcher(nil, 1, 15*time.Second, discardLogger())

	if got := rf.retryDelay(errors.New("timeout")); got != 15*time.Second {
		t.Errorf("plain error: expected 15s, got %v", got)
	}
	if got := rf.retryDelay(&model.HTTPError{StatusCode: 500}); got != 15*time.Second {
		t.Errorf("5xx without hint: expected 15s, got %v", got)
	}
	if got := rf.retryDelay(&model.HTTPError{StatusCode: 429, RetryAfter: 42 * time.Second}); got != 42*time.Second {
		t.Errorf("429 with Retry-After: expected 42s, got %v", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"429", &model.HTTPError{StatusCode: 429}, true},
		{"503", &model.HTTPError{StatusCode: 503}, true},
		{"403", &model.HTTPError{StatusCode: 403}, false},
		{"network", errors.New("dial tcp: no such host"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
