package idempotency

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds idempotency-related Prometheus metrics
type Metrics struct {
	Hits                    *prometheus.CounterVec
	Misses                  *prometheus.CounterVec
	ParameterMismatches     *prometheus.CounterVec
	ConcurrentCollisions    *prometheus.CounterVec
	LockAcquisitionDuration *prometheus.HistogramVec
	StorageErrors           *prometheus.CounterVec
}

// NewMetrics registers the idempotency metrics on registry, or on the default
// registerer when registry is nil
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)
	labels := []string{"service", "endpoint", "method"}

	return &Metrics{
		Hits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Name:      "idempotency_hits_total",
			Help:      "Requests answered from a stored response",
		}, labels),
		Misses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Name:      "idempotency_misses_total",
			Help:      "Requests processed under a new idempotency key",
		}, labels),
		ParameterMismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Name:      "idempotency_parameter_mismatches_total",
			Help:      "Keys reused with a different request",
		}, labels),
		ConcurrentCollisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Name:      "idempotency_concurrent_collisions_total",
			Help:      "Requests rejected because the key was still in flight",
		}, labels),
		LockAcquisitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "erp",
			Name:      "idempotency_lock_acquisition_duration_seconds",
			Help:      "Time taken to claim an idempotency key",
			Buckets:   prometheus.DefBuckets,
		}, labels),
		StorageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Name:      "idempotency_storage_errors_total",
			Help:      "Idempotency storage failures",
		}, []string{"service", "operation"}),
	}
}

func (m *Metrics) recordHit(service, endpoint, method string) {
	if m != nil {
		m.Hits.WithLabelValues(service, endpoint, method).Inc()
	}
}

func (m *Metrics) recordMiss(service, endpoint, method string) {
	if m != nil {
		m.Misses.WithLabelValues(service, endpoint, method).Inc()
	}
}

func (m *Metrics) recordParameterMismatch(service, endpoint, method string) {
	if m != nil {
		m.ParameterMismatches.WithLabelValues(service, endpoint, method).Inc()
	}
}

func (m *Metrics) recordConcurrentCollision(service, endpoint, method string) {
	if m != nil {
		m.ConcurrentCollisions.WithLabelValues(service, endpoint, method).Inc()
	}
}

func (m *Metrics) recordLockAcquisition(service, endpoint, method string, seconds float64) {
	if m != nil {
		m.LockAcquisitionDuration.WithLabelValues(service, endpoint, method).Observe(seconds)
	}
}

func (m *Metrics) recordStorageError(service, operation string) {
	if m != nil {
		m.StorageErrors.WithLabelValues(service, operation).Inc()
	}
}
