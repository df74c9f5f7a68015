package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartCallMetrics records outcomes of remote cart calls.
type CartCallMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewCartCallMetrics registers the cart call metrics on the provided registerer.
func NewCartCallMetrics(reg prometheus.Registerer) *CartCallMetrics {
	if reg == nil {
		return &CartCallMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_call_duration_seconds",
		Help:    "Duration of remote cart calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_call_success",
		Help: "Successful remote cart calls.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_call_failure",
		Help: "Failed remote cart calls.",
	}, []string{"operation"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_guard_rejected",
		Help: "Cart mutations rejected by the local stock guard.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure, rejected)
	return &CartCallMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		rejected: rejected,
	}
}

// ObserveDuration records the duration for the named operation.
func (c *CartCallMetrics) ObserveDuration(operation string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (c *CartCallMetrics) IncSuccess(operation string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (c *CartCallMetrics) IncFailure(operation string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncGuardRejected increments the stock-guard rejection counter.
func (c *CartCallMetrics) IncGuardRejected(operation string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
