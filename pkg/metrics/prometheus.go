package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	fetchErrors    *prometheus.CounterVec
	refreshCycles  *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	persistLatency *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "porttrack_cache_hits_total",
				Help: "Total number of in-memory cache hits per entity",
			},
			[]string{"entity"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "porttrack_cache_misses_total",
				Help: "Total number of in-memory cache misses per entity",
			},
			[]string{"entity"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "porttrack_fetch_errors_total",
				Help: "Total number of failed external-source fetches",
			},
			[]string{"source"},
		),
		refreshCycles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "porttrack_refresh_cycles_total",
				Help: "Total number of market refresh cycles by outcome",
			},
			[]string{"outcome"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "porttrack_last_price",
				Help: "Last fetched close price for a symbol",
			},
			[]string{"symbol"},
		),
		persistLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "porttrack_persist_duration_seconds",
				Help:    "Duration of durable table writes in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table"},
		),
	}
}

// RecordCacheHit records an in-memory cache hit.
func (r *Recorder) RecordCacheHit(entity string) {
	r.cacheHits.WithLabelValues(entity).Inc()
}

// RecordCacheMiss records an in-memory cache miss.
func (r *Recorder) RecordCacheMiss(entity string) {
	r.cacheMisses.WithLabelValues(entity).Inc()
}

// RecordFetchError records a failed external-source call.
func (r *Recorder) RecordFetchError(source string) {
	r.fetchErrors.WithLabelValues(source).Inc()
}

// RecordRefreshCycle records the outcome of one refresh cycle.
func (r *Recorder) RecordRefreshCycle(outcome string) {
	r.refreshCycles.WithLabelValues(outcome).Inc()
}

// RecordLastPrice records the last close price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordPersistLatency records a durable write duration in seconds.
func (r *Recorder) RecordPersistLatency(table string, seconds float64) {
	r.persistLatency.WithLabelValues(table).Observe(seconds)
}
