// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "infralens"

var (
	TierResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "tier_attempts_total",
		Help:      "Catalog tier attempts by tier and outcome (available, unavailable)",
	}, []string{"tier", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "cache_lookups_total",
		Help:      "Catalog cache lookups by cache (hub, result) and result (hit, miss)",
	}, []string{"cache", "result"})

	RerankOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rerank",
		Name:      "outcomes_total",
		Help:      "LLM re-ranking outcomes: applied, unparseable, failed, skipped",
	}, []string{"outcome"})

	RecommendationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "duration_seconds",
		Help:      "End-to-end recommendation latency",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
	})

	AnalyticsFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analytics",
		Name:      "write_failures_total",
		Help:      "Analytics writes that failed, by sink",
	}, []string{"sink"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveTier records one catalog tier attempt.
func ObserveTier(tier string, ok bool, _ string) {
	outcome := "unavailable"
	if ok {
		outcome = "available"
	}
	TierResolutions.WithLabelValues(tier, outcome).Inc()
}

// CacheObserver returns a hit/miss callback for the named cache.
func CacheObserver(name string) func(hit bool) {
	return func(hit bool) {
		result := "miss"
		if hit {
			result = "hit"
		}
		CacheLookups.WithLabelValues(name, result).Inc()
	}
}

// AnalyticsFailure counts a failed analytics write.
func AnalyticsFailure(sink string) {
	AnalyticsFailures.WithLabelValues(sink).Inc()
}
