// Package metrics defines the Prometheus collectors used by the tools and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	RecordsConvertedTotal prometheus.Counter
	ConversionErrorsTotal *prometheus.CounterVec
	SinkWritesTotal       *prometheus.CounterVec
	AnalyzeDuration       prometheus.Histogram
	TokensPerQuery        prometheus.Histogram
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter

	registry *prometheus.Registry
}

// New creates all collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		RecordsConvertedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "queryprep_records_converted_total",
				Help: "Total query records written to the TSV output.",
			},
		),
		ConversionErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queryprep_conversion_errors_total",
				Help: "Conversion runs aborted, by error kind.",
			},
			[]string{"kind"},
		),
		SinkWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queryprep_sink_writes_total",
				Help: "Records handed to downstream sinks, by sink and status.",
			},
			[]string{"sink", "status"},
		),
		AnalyzeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "queryprep_analyze_duration_seconds",
				Help:    "Time spent analyzing a query string.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
		TokensPerQuery: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "queryprep_tokens_per_query",
				Help:    "Distinct tokens in each weight map.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "queryprep_cache_hits_total",
				Help: "Total number of weight map cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "queryprep_cache_misses_total",
				Help: "Total number of weight map cache misses.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RecordsConvertedTotal,
		m.ConversionErrorsTotal,
		m.SinkWritesTotal,
		m.AnalyzeDuration,
		m.TokensPerQuery,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Registry exposes the collectors for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
