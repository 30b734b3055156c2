package metrics

import (
	"testing"

	"CryptoSeason/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.FetchStarted("BTC")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchInFlight.WithLabelValues("BTC")))
	r.FetchFinished("BTC")
	assert.Equal(t, 0.0, testutil.ToFloat64(r.fetchInFlight.WithLabelValues("BTC")))

	r.RecordFetch("BTC", "ok", 0.2)
	r.RecordFetch("BTC", "error", 0.1)
	r.RecordFetch("BTC", "ok", 0.3)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("BTC", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("BTC", "error")))

	r.RecordCache("ETH", true)
	r.RecordCache("ETH", false)
	r.RecordCache("ETH", false)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheTotal.WithLabelValues("ETH", "miss")))

	r.RecordSummary("ETH", &models.Summary{AvgReturn: 12.5, PositiveYears: 4, NegativeYears: 3})
	r.RecordSummary("ETH", nil)
	assert.Equal(t, 12.5, testutil.ToFloat64(r.avgReturn.WithLabelValues("ETH")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.seasonYears.WithLabelValues("ETH", "negative")))

	r.RecordError("sink")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("sink")))
}

func TestTwoRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
