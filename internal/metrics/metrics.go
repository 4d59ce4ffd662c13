// Package metrics holds the prometheus collectors for safety validation and
// the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alchemorsel"

// Metrics groups the service's collectors.
type Metrics struct {
	verdicts           *prometheus.CounterVec
	findings           *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	validationDuration prometheus.Histogram
	requestDuration    *prometheus.HistogramVec
	requestCount       *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "verdicts_total",
			Help:      "Safety verdicts issued, by outcome.",
		}, []string{"outcome"}),
		findings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "findings_total",
			Help:      "Blockers and warnings reported, by tier and rule.",
		}, []string{"tier", "rule"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "verdict_cache_lookups_total",
			Help:      "Verdict cache lookups, by result.",
		}, []string{"result"}),
		validationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating one recipe.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

// RecordVerdict counts one verdict.
func (m *Metrics) RecordVerdict(safe bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "unsafe"
	if safe {
		outcome = "safe"
	}
	m.verdicts.WithLabelValues(outcome).Inc()
	m.validationDuration.Observe(duration.Seconds())
}

// RecordFinding counts one blocker or warning.
func (m *Metrics) RecordFinding(tier, rule string) {
	if m == nil {
		return
	}
	m.findings.WithLabelValues(tier, rule).Inc()
}

// RecordCacheLookup counts a cache hit, miss or error.
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordRequest records request metrics
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(method, path, statusStr).Inc()
}
