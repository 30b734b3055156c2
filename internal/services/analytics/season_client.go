package analytics

import (
	"context"
	"errors"
	"net/url"
	"time"

	"CryptoSeason/internal/domain/models"
	domrepo "CryptoSeason/internal/domain/repository"
	domsvc "CryptoSeason/internal/domain/service"
	applogger "CryptoSeason/pkg/logger"
	"CryptoSeason/pkg/metrics"
)

// AnalysisPath is the route of the remote analysis API, relative to its base URL.
const AnalysisPath = "/api/crypto-analysis/"

// SeasonClient fetches season records from the analysis API.
type SeasonClient struct {
	base    *HTTPServiceBase
	log     *applogger.Logger
	metrics domrepo.Metrics
}

// ClientOption configures SeasonClient.
type ClientOption func(*SeasonClient)

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *SeasonClient) { c.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m domrepo.Metrics) ClientOption {
	return func(c *SeasonClient) { c.metrics = m }
}

// NewSeasonClient builds a client for baseURL (e.g. http://localhost:8000).
func NewSeasonClient(baseURL string, timeout time.Duration, opts ...ClientOption) *SeasonClient {
	c := &SeasonClient{
		base:    NewHTTPServiceBase(baseURL, timeout),
		log:     applogger.Nop(),
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch requests GET {base}/api/crypto-analysis/{asset} and returns its data
// in server order. Every failure is a *FetchError; the cause is logged.
func (c *SeasonClient) Fetch(ctx context.Context, asset models.Asset) ([]models.YearRecord, error) {
	start := time.Now()
	sym := asset.String()
	c.metrics.FetchStarted(sym)
	defer c.metrics.FetchFinished(sym)

	path := AnalysisPath + url.PathEscape(sym)
	var resp models.AnalysisResponse
	err := c.base.GetJSON(ctx, path, &resp)
	took := time.Since(start)

	if err != nil {
		fe := newFetchError(asset, err)
		if errors.Is(err, context.Canceled) {
			c.metrics.RecordFetch(sym, "cancelled", took.Seconds())
			c.log.Debug("analysis fetch cancelled", applogger.String("asset", sym))
			return nil, fe
		}
		c.metrics.RecordFetch(sym, "error", took.Seconds())
		c.metrics.RecordError("fetch")
		c.log.Error("Error fetching data",
			applogger.String("asset", sym),
			applogger.String("url", c.base.URL(path)),
			applogger.Int("status", fe.Status),
			applogger.Duration("took_ms", took),
			applogger.Error(err),
		)
		return nil, fe
	}

	c.metrics.RecordFetch(sym, "ok", took.Seconds())
	c.log.Debug("analysis fetched",
		applogger.String("asset", sym),
		applogger.Int("records", len(resp.Data)),
		applogger.Duration("took_ms", took),
	)
	return resp.Data, nil
}

var _ domsvc.SeasonFetcher = (*SeasonClient)(nil)
