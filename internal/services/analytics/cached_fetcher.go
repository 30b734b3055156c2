package analytics

import (
	"context"
	"errors"
	"time"

	"CryptoSeason/internal/domain/models"
	domrepo "CryptoSeason/internal/domain/repository"
	domsvc "CryptoSeason/internal/domain/service"
	"CryptoSeason/pkg/cache"
	applogger "CryptoSeason/pkg/logger"
	"CryptoSeason/pkg/metrics"
)

const cacheKeyPrefix = "analysis"

// CachedFetcher serves season records from a cache and falls back to the
// wrapped fetcher. Failed fetches are never cached.
type CachedFetcher struct {
	next    domsvc.SeasonFetcher
	cache   cache.Service
	ttl     time.Duration
	log     *applogger.Logger
	metrics domrepo.Metrics
}

// NewCachedFetcher wraps next with c. A nil cache returns next unchanged.
func NewCachedFetcher(next domsvc.SeasonFetcher, c cache.Service, ttl time.Duration, log *applogger.Logger, m domrepo.Metrics) domsvc.SeasonFetcher {
	if c == nil {
		return next
	}
	if log == nil {
		log = applogger.Nop()
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &CachedFetcher{next: next, cache: c, ttl: ttl, log: log.Component("analysis-cache"), metrics: m}
}

// CacheKey returns the cache key used for asset.
func CacheKey(asset models.Asset) string {
	return cache.GenerateKey(cacheKeyPrefix, asset.String())
}

func (f *CachedFetcher) Fetch(ctx context.Context, asset models.Asset) ([]models.YearRecord, error) {
	key := CacheKey(asset)

	var cached []models.YearRecord
	err := f.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		f.metrics.RecordCache(asset.String(), true)
		return cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		f.log.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	f.metrics.RecordCache(asset.String(), false)

	records, err := f.next.Fetch(ctx, asset)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Set(ctx, key, records, f.ttl); err != nil {
		f.log.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return records, nil
}

// Invalidate removes the cached records of asset.
func (f *CachedFetcher) Invalidate(ctx context.Context, asset models.Asset) error {
	return f.cache.Delete(ctx, CacheKey(asset))
}

var (
	_ domsvc.SeasonFetcher     = (*CachedFetcher)(nil)
	_ domsvc.SeasonInvalidator = (*CachedFetcher)(nil)
)
