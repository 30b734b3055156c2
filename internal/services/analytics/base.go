package analytics

import (
	"context"
	"fmt"
	"time"

	xhttp "CryptoSeason/pkg/http"
)

const defaultTimeout = 10 * time.Second

// HTTPServiceBase centralizes client construction and JSON GETs against the
// analysis service.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
}

// NewHTTPServiceBase builds an HTTP client with timeout and base URL.
func NewHTTPServiceBase(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts = append([]xhttp.ClientOption{xhttp.WithTimeout(timeout)}, opts...)
	return &HTTPServiceBase{
		baseURL: baseURL,
		client:  xhttp.NewClient(opts...),
	}
}

// GetJSON issues GET baseURL+path and decodes JSON into dest.
func (b *HTTPServiceBase) GetJSON(ctx context.Context, path string, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("analysis http client not initialized")
	}
	if err := b.client.GetJSON(ctx, b.baseURL+path, dest); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// URL returns the absolute URL for path.
func (b *HTTPServiceBase) URL(path string) string {
	return b.baseURL + path
}
