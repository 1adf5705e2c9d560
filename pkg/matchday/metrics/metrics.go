// Package metrics provides Prometheus metrics for the aggregation engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects and exposes aggregation-related Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram

	// Cache metrics
	CacheEvents *prometheus.CounterVec

	// View metrics
	BucketSize *prometheus.GaugeVec
}

// New creates a new metrics collector with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchday_requests_total",
				Help: "Total daily-view requests served",
			},
			[]string{"status"},
		),
		RequestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "matchday_request_duration_seconds",
				Help:    "Daily-view assembly latency",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 18), // 1ms to ~2m
			},
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchday_cache_events_total",
				Help: "Cache lookups by cache name and result",
			},
			[]string{"cache", "result"},
		),
		BucketSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "matchday_view_items",
				Help: "Items in the most recent daily view by bucket",
			},
			[]string{"bucket"},
		),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.CacheEvents,
		m.BucketSize,
	)

	return m
}

// Registry returns the prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CountRequest records one served request and its latency.
func (m *Metrics) CountRequest(status string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(status).Inc()
	m.RequestDuration.Observe(elapsed.Seconds())
}

// CountCache records a cache lookup result.
func (m *Metrics) CountCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheEvents.WithLabelValues(cache, result).Inc()
}

// ObserveView records the bucket sizes of an assembled view.
func (m *Metrics) ObserveView(live, upcoming, past, picks int) {
	m.BucketSize.WithLabelValues("live").Set(float64(live))
	m.BucketSize.WithLabelValues("upcoming").Set(float64(upcoming))
	m.BucketSize.WithLabelValues("past").Set(float64(past))
	m.BucketSize.WithLabelValues("picks").Set(float64(picks))
}
