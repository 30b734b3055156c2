package repository

import (
	"context"

	"CryptoSeason/internal/domain/models"
)

// SnapshotSink archives successful fetches.
type SnapshotSink interface {
	Save(ctx context.Context, s *models.Snapshot) error
	Close() error
}

// Metrics records fetch outcomes.
type Metrics interface {
	RecordFetch(asset string, result string, seconds float64)
	FetchStarted(asset string)
	FetchFinished(asset string)
	RecordCache(asset string, hit bool)
	RecordSummary(asset string, s *models.Summary)
	RecordError(kind string)
}

// NopSink discards snapshots.
type NopSink struct{}

func (NopSink) Save(context.Context, *models.Snapshot) error { return nil }

func (NopSink) Close() error { return nil }
