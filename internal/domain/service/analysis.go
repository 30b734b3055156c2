package service

import (
	"context"

	"CryptoSeason/internal/domain/models"
)

// SeasonFetcher retrieves the yearly season records of an asset.
type SeasonFetcher interface {
	Fetch(ctx context.Context, asset models.Asset) ([]models.YearRecord, error)
}

// SeasonFetcherFunc adapts a function to SeasonFetcher.
type SeasonFetcherFunc func(ctx context.Context, asset models.Asset) ([]models.YearRecord, error)

func (f SeasonFetcherFunc) Fetch(ctx context.Context, asset models.Asset) ([]models.YearRecord, error) {
	return f(ctx, asset)
}

// SeasonInvalidator is implemented by fetchers that keep results between
// calls. Invalidate drops whatever is held for asset so the next Fetch asks
// the source again.
type SeasonInvalidator interface {
	Invalidate(ctx context.Context, asset models.Asset) error
}
