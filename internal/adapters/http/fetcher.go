package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/bft-labs/assetship/internal/ports"
)

// DefaultUserAgent is sent with every download. Some image hosts reject
// requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (compatible; assetship image downloader)"

// maxBody caps a single download.
const maxBody = 64 << 20

// Fetcher implements ports.Fetcher over HTTP with an optional rate limit.
type Fetcher struct {
	client    ports.HTTPClient
	limiter   *rate.Limiter
	userAgent string
	logger    ports.Logger
}

// NewFetcher creates a Fetcher. A perSecond of zero or less disables the
// rate limit.
func NewFetcher(client ports.HTTPClient, perSecond float64, userAgent string, logger ports.Logger) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	f := &Fetcher{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
	}
	if perSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return f
}

// Fetch downloads url and returns the body.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.logger.Debug("downloading", ports.String("url", url))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxBody {
		return nil, fmt.Errorf("response larger than %d bytes", maxBody)
	}
	return data, nil
}
