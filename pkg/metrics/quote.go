package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records pricing engine activity.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	dropped  prometheus.Counter
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of quote calculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_requests_total",
		Help: "Quote calculations by outcome.",
	}, []string{"outcome"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quote_lines_dropped_total",
		Help: "Cart lines removed because no quantity could be fulfilled.",
	})
	reg.MustRegister(duration, requests, dropped)
	return &QuoteMetrics{
		duration: duration,
		requests: requests,
		dropped:  dropped,
	}
}

// ObserveDuration records the duration of a quote calculation.
func (q *QuoteMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeOutcome(outcome)).Observe(duration.Seconds())
}

// IncRequest increments the request counter for the given outcome.
func (q *QuoteMetrics) IncRequest(outcome string) {
	if q == nil || q.requests == nil {
		return
	}
	q.requests.WithLabelValues(normalizeOutcome(outcome)).Inc()
}

// IncDroppedLines adds n to the dropped line counter.
func (q *QuoteMetrics) IncDroppedLines(n int) {
	if q == nil || q.dropped == nil || n <= 0 {
		return
	}
	q.dropped.Add(float64(n))
}

func normalizeOutcome(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
