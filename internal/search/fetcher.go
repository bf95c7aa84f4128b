package search

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/amishk599/jobsift/internal/model"
)

// maxPageBytes caps how much of a results page is read.
const maxPageBytes = 8 << 20

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) jobsift/1.0"

// Ensure HTTPFetcher implements model.PageFetcher.
var _ model.PageFetcher = (*HTTPFetcher)(nil)

// HTTPFetcher fetches results pages over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher using the given client.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch returns the body of the page at url. Non-200 responses are returned
// as *model.HTTPError so retry logic can classify them.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %w", url, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("fetch %s: reading body: %w", url, err)
	}
	return string(body), nil
}
