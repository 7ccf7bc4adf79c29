// Package probe fetches logical queries from an ordered list of candidate
// endpoints, falling through to the next candidate on any failure.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/couchcryptid/happiness-data-service/internal/normalize"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 16 << 20

// Fetcher retrieves one candidate URL and classifies the response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (normalize.Payload, error)
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// HTTPFetcher is a Fetcher backed by net/http with a per-request timeout.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (normalize.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return normalize.Payload{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/csv")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return normalize.Payload{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return normalize.Payload{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return normalize.Payload{}, fmt.Errorf("read body: %w", err)
	}
	return normalize.Sniff(resp.Header.Get("Content-Type"), body), nil
}
