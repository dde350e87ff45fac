package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// feeds are big but not that big; refuse anything past this
const maxFeedBytes = 64 << 20

// Credentials is optional HTTP basic auth for protected feeds.
type Credentials struct {
	Username string
	Password string
}

type Fetcher struct {
	hc        *http.Client
	limiter   *hostLimiter
	userAgent string
}

func NewFetcher(timeout time.Duration, userAgent string, reqPerSec float64, burst int) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		hc:        &http.Client{Timeout: timeout},
		limiter:   newHostLimiter(reqPerSec, burst),
		userAgent: userAgent,
	}
}

// Fetch GETs the feed document. A timeout or non-2xx response is a run
// failure; the error message carries the reason.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, creds *Credentials) ([]byte, error) {
	if err := f.limiter.waitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.8")
	if creds != nil {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("feed status %d", res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("feed read: %w", err)
	}
	return b, nil
}
