package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fusionstudio/internal/domain"
)

// Fetcher retrieves reference images through a CORS relay: an HTTP
// intermediary whose URL prefix is concatenated with the escaped target URL.
// The original gallery art lives on hosts that do not serve permissive CORS
// headers, so the browser path needed a relay; the server keeps the same
// indirection so catalog URLs stay interchangeable.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
}

// Options configures a Fetcher.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewFetcher builds a Fetcher. An empty BaseURL disables the relay and fetches
// targets directly.
func NewFetcher(opts Options) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{
		baseURL:    strings.TrimSpace(opts.BaseURL),
		httpClient: client,
	}
}

// FetchImage downloads the image at target through the relay and returns its
// raw bytes plus the sniffed media type. A non-2xx upstream response becomes a
// domain.FetchError carrying the HTTP status text; a payload that does not
// sniff to an image type fails with domain.ErrNotAnImage.
func (f *Fetcher) FetchImage(ctx context.Context, target string) ([]byte, string, error) {
	endpoint := target
	if f.baseURL != "" {
		endpoint = f.baseURL + url.QueryEscape(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create relay request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch reference image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", &domain.FetchError{URL: target, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read reference image: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, "", domain.ErrNotAnImage
	}
	return data, mime, nil
}
