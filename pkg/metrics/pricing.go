package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records pricing request outcomes per operation.
type PricingMetrics struct {
	duration   *prometheus.HistogramVec
	requests   *prometheus.CounterVec
	cacheHits  *prometheus.CounterVec
	notApplied *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_request_duration_seconds",
		Help:    "Duration of pricing computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_requests_total",
		Help: "Pricing requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quote_cache_total",
		Help: "Quote cache lookups by result.",
	}, []string{"result"})
	notApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_not_applicable_total",
		Help: "Soft not-applicable outcomes by operation.",
	}, []string{"operation"})
	reg.MustRegister(duration, requests, cacheHits, notApplied)
	return &PricingMetrics{
		duration:   duration,
		requests:   requests,
		cacheHits:  cacheHits,
		notApplied: notApplied,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *PricingMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncRequest increments the request counter for the operation/outcome pair.
func (m *PricingMetrics) IncRequest(operation, outcome string) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncCache records a quote cache lookup result ("hit" or "miss").
func (m *PricingMetrics) IncCache(result string) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncNotApplicable counts a soft not-applicable outcome for the operation.
func (m *PricingMetrics) IncNotApplicable(operation string) {
	if m == nil || m.notApplied == nil {
		return
	}
	m.notApplied.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
