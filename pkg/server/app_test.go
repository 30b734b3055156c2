package server

import (
	"context"
	"testing"
	"time"

	"CryptoSeason/internal/domain/models"
	domsvc "CryptoSeason/internal/domain/service"
	"CryptoSeason/internal/service/ratelimit"
	"CryptoSeason/internal/usecase"
	xhttp "CryptoSeason/pkg/http"
	applogger "CryptoSeason/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestRunContextStartsAndShutsDown(t *testing.T) {
	fetched := make(chan models.Asset, 1)
	f := domsvc.SeasonFetcherFunc(func(ctx context.Context, a models.Asset) ([]models.YearRecord, error) {
		fetched <- a
		return []models.YearRecord{{Year: 2020, Label: "2020-21", Return: 3}}, nil
	})
	dash, err := usecase.NewDashboard(f)
	require.NoError(t, err)

	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	sink := &closeRecorder{}
	app := New(applogger.Nop(), dash, srv,
		WithCloser("sink", sink),
		WithCloser("cache", nil),
		WithLimiter(ratelimit.New(1, 1)),
	)
	assert.Len(t, app.closers, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	select {
	case a := <-fetched:
		assert.Equal(t, models.AssetBTC, a)
	case <-time.After(2 * time.Second):
		t.Fatal("dashboard did not fetch on start")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not shut down")
	}

	assert.True(t, sink.closed)
	_, err = dash.SelectAsset("ETH")
	assert.ErrorIs(t, err, usecase.ErrDashboardClosed)
}
