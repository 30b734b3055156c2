package analytics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"CryptoSeason/internal/domain/models"
	domsvc "CryptoSeason/internal/domain/service"
	"CryptoSeason/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedFetcherServesSecondCallFromCache(t *testing.T) {
	var calls int32
	next := domsvc.SeasonFetcherFunc(func(ctx context.Context, a models.Asset) ([]models.YearRecord, error) {
		atomic.AddInt32(&calls, 1)
		return []models.YearRecord{{Year: 2016, Label: "2016-17", Return: 10}}, nil
	})
	mc := cache.NewMemoryCache()
	defer mc.Close()

	f := NewCachedFetcher(next, mc, time.Minute, nil, nil)

	for i := 0; i < 3; i++ {
		got, err := f.Fetch(context.Background(), models.AssetBTC)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "2016-17", got[0].Label)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	ok, err := mc.Exists(context.Background(), "analysis:BTC")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCachedFetcherDoesNotCacheFailures(t *testing.T) {
	var calls int32
	next := domsvc.SeasonFetcherFunc(func(ctx context.Context, a models.Asset) ([]models.YearRecord, error) {
		atomic.AddInt32(&calls, 1)
		return nil, &FetchError{Asset: a, Status: 500, Err: errors.New("boom")}
	})
	mc := cache.NewMemoryCache()
	defer mc.Close()

	f := NewCachedFetcher(next, mc, time.Minute, nil, nil)

	_, err := f.Fetch(context.Background(), models.AssetETH)
	assert.True(t, IsFetchError(err))
	_, err = f.Fetch(context.Background(), models.AssetETH)
	assert.True(t, IsFetchError(err))

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, 0, mc.Len())
}

func TestNewCachedFetcherWithoutCache(t *testing.T) {
	next := domsvc.SeasonFetcherFunc(func(ctx context.Context, a models.Asset) ([]models.YearRecord, error) {
		return nil, nil
	})
	f := NewCachedFetcher(next, nil, time.Minute, nil, nil)
	_, isCached := f.(*CachedFetcher)
	assert.False(t, isCached)
}

func TestCachedFetcherInvalidate(t *testing.T) {
	var calls int32
	next := domsvc.SeasonFetcherFunc(func(ctx context.Context, a models.Asset) ([]models.YearRecord, error) {
		atomic.AddInt32(&calls, 1)
		return []models.YearRecord{{Year: 2016, Return: 1}}, nil
	})
	mc := cache.NewMemoryCache()
	defer mc.Close()

	f := NewCachedFetcher(next, mc, time.Minute, nil, nil)
	inv, ok := f.(domsvc.SeasonInvalidator)
	require.True(t, ok)

	ctx := context.Background()
	_, err := f.Fetch(ctx, models.AssetBTC)
	require.NoError(t, err)
	_, err = f.Fetch(ctx, models.AssetETH)
	require.NoError(t, err)

	require.NoError(t, inv.Invalidate(ctx, models.AssetBTC))
	ok, err = mc.Exists(ctx, CacheKey(models.AssetBTC))
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = mc.Exists(ctx, CacheKey(models.AssetETH))
	require.NoError(t, err)
	assert.True(t, ok, "other assets stay cached")

	_, err = f.Fetch(ctx, models.AssetBTC)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}
