package analytics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CryptoSeason/internal/domain/models"
	xhttp "CryptoSeason/pkg/http"
	applogger "CryptoSeason/pkg/logger"
	"CryptoSeason/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seasonBody = `{"data":[
 {"year":"2016-17","return":10,"volatility":50,"drawdown":12},
 {"year":"2017-18","return":-5,"volatility":80,"drawdown":40},
 {"year":"2018-19","return":0,"volatility":60,"drawdown":25}
]}`

func TestFetchSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, seasonBody)
	}))
	defer srv.Close()

	c := NewSeasonClient(srv.URL, time.Second, WithMetrics(metrics.New(prometheus.NewRegistry())))
	recs, err := c.Fetch(context.Background(), models.AssetETH)
	require.NoError(t, err)

	assert.Equal(t, "/api/crypto-analysis/ETH", gotPath)
	require.Len(t, recs, 3)
	assert.Equal(t, 2016, recs[0].Year)
	assert.Equal(t, "2017-18", recs[1].Label)
	assert.Equal(t, -5.0, recs[1].Return)
	assert.Equal(t, 60.0, recs[2].Volatility)
}

func TestFetchNullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":null}`)
	}))
	defer srv.Close()

	recs, err := NewSeasonClient(srv.URL, time.Second).Fetch(context.Background(), models.AssetBTC)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFetchServerErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "yfinance down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	c := NewSeasonClient(srv.URL, time.Second, WithLogger(applogger.NewWriter(&logs, "info")))
	recs, err := c.Fetch(context.Background(), models.AssetBTC)

	assert.Nil(t, recs)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch data. Please try again later.", err.Error())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
	assert.Equal(t, models.AssetBTC, fe.Asset)

	var se *xhttp.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "yfinance down", se.Body)

	assert.Contains(t, logs.String(), "Error fetching data")
	assert.Contains(t, logs.String(), "yfinance down")
	assert.NotContains(t, err.Error(), "yfinance")
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"year":"next year"}]}`)
	}))
	defer srv.Close()

	_, err := NewSeasonClient(srv.URL, time.Second).Fetch(context.Background(), models.AssetBTC)
	assert.True(t, IsFetchError(err))
	assert.Equal(t, FetchFailedMessage, err.Error())
}

func TestFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewSeasonClient(url, time.Second).Fetch(context.Background(), models.AssetBTC)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.Status)
	assert.NotEqual(t, "unknown", fe.Cause())
}

func TestFetchCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := NewSeasonClient(srv.URL, 5*time.Second).Fetch(ctx, models.AssetBTC)
	assert.True(t, IsFetchError(err))
	assert.True(t, errors.Is(err, context.Canceled))
}
