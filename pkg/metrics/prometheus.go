package metrics

import (
	"CryptoSeason/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchInFlight *prometheus.GaugeVec
	cacheTotal    *prometheus.CounterVec
	avgReturn     *prometheus.GaugeVec
	seasonYears   *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a recorder registered on reg (prometheus.DefaultRegisterer in production).
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoseason_fetch_total",
				Help: "Analysis API fetches by asset and result",
			},
			[]string{"asset", "result"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptoseason_fetch_duration_seconds",
				Help:    "Analysis API fetch latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"asset"},
		),
		fetchInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptoseason_fetch_in_flight",
				Help: "Analysis API fetches currently in progress",
			},
			[]string{"asset"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoseason_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"asset", "result"},
		),
		avgReturn: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptoseason_avg_return_percent",
				Help: "Average season return of the last successful fetch",
			},
			[]string{"asset"},
		),
		seasonYears: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptoseason_season_years",
				Help: "Positive and negative season counts of the last successful fetch",
			},
			[]string{"asset", "sign"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoseason_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFetch records a completed fetch.
func (r *Recorder) RecordFetch(asset, result string, seconds float64) {
	r.fetchTotal.WithLabelValues(asset, result).Inc()
	r.fetchDuration.WithLabelValues(asset).Observe(seconds)
}

func (r *Recorder) FetchStarted(asset string) { r.fetchInFlight.WithLabelValues(asset).Inc() }

func (r *Recorder) FetchFinished(asset string) { r.fetchInFlight.WithLabelValues(asset).Dec() }

// RecordCache records a cache hit or miss.
func (r *Recorder) RecordCache(asset string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheTotal.WithLabelValues(asset, result).Inc()
}

// RecordSummary exports the latest summary; a nil summary clears nothing.
func (r *Recorder) RecordSummary(asset string, s *models.Summary) {
	if s == nil {
		return
	}
	r.avgReturn.WithLabelValues(asset).Set(s.AvgReturn)
	r.seasonYears.WithLabelValues(asset, "positive").Set(float64(s.PositiveYears))
	r.seasonYears.WithLabelValues(asset, "negative").Set(float64(s.NegativeYears))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Nop is a Metrics implementation that records nothing.
type Nop struct{}

func (Nop) RecordFetch(string, string, float64)   {}
func (Nop) FetchStarted(string)                   {}
func (Nop) FetchFinished(string)                  {}
func (Nop) RecordCache(string, bool)              {}
func (Nop) RecordSummary(string, *models.Summary) {}
func (Nop) RecordError(string)                    {}
