package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"CryptoSeason/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ethBody = `{"data":[
	{"year":"2017-18","return":120.5,"volatility":95.2,"drawdown":-45.1,"startPrice":700,"endPrice":1540},
	{"year":"2018-19","return":-30.5,"volatility":70,"drawdown":-50}
]}`

func analysisServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crypto-analysis/ETH", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ethBody))
	})
	mux.HandleFunc("/api/crypto-analysis/BTC", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "yfinance unavailable", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunText(t *testing.T) {
	srv := analysisServer(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-base-url", srv.URL, "-asset", "eth"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Cryptocurrency December-March Analysis")
	assert.Contains(t, out, "[x] ETH Ethereum")
	assert.Contains(t, out, "45.0%")
	assert.Contains(t, out, "2017-18")
}

func TestRunJSON(t *testing.T) {
	srv := analysisServer(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-base-url", srv.URL, "-asset", "ETH", "-format", "json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var v models.DashboardView
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &v))
	assert.Equal(t, models.AssetETH, v.Selected)
	require.NotNil(t, v.Summary)
	assert.Equal(t, 1, v.Summary.PositiveYears)
	assert.Equal(t, 1, v.Summary.NegativeYears)
	assert.Equal(t, 120.5, v.Summary.BestReturn)
	require.Len(t, v.Records, 2)
	assert.Equal(t, 2017, v.Records[0].Year)
}

func TestRunFetchFailure(t *testing.T) {
	srv := analysisServer(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-base-url", srv.URL}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Error: Failed to fetch data. Please try again later.")
	assert.Contains(t, stderr.String(), "Error fetching data")
}

func TestRunRejectsBadInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-asset", "DOGE"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid asset")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"-format", "xml"}, &stdout, &stderr))
}
