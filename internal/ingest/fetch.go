package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Source is one declared input list.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Fetcher downloads hosts-format sources and streams them through Scan. The
// response body is never buffered whole.
type Fetcher struct {
	http *http.Client
}

// NewFetcher builds a Fetcher with sane transport timeouts for large but
// bounded list downloads.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Fetcher{
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads one source and scans it. Transport failures, non-200
// statuses, empty results, and cancellation each surface as distinct error
// kinds; none are conflated with an empty success.
func (f *Fetcher) Fetch(ctx context.Context, src Source, opts Options) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", src.URL, err)
	}
	req.Header.Set("Accept", "text/plain, */*")

	resp, err := f.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetch %s: %w", src.URL, ErrCanceled)
		}
		return nil, fmt.Errorf("fetch %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: src.URL, Status: resp.Status, Code: resp.StatusCode}
	}

	return Scan(ctx, resp.Body, opts)
}
