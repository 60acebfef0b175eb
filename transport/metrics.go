package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess      = "success"
	outcomeUnauthorized = "unauthorized"
	outcomeHTTPError    = "http_error"
	outcomeNetwork      = "network_error"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	expired  prometheus.Counter
}

// newMetrics builds the pipeline collectors and registers them with reg when
// it is not nil. Collectors already registered by another client are reused.
func newMetrics(reg prometheus.Registerer) *metrics {
	ret := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authsession",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests issued through the pipeline by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "authsession",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "authsession",
			Subsystem: "http",
			Name:      "session_expired_total",
			Help:      "Unauthorized responses that tore the session down.",
		}),
	}
	if reg == nil {
		return ret
	}
	ret.requests = register(reg, ret.requests)
	ret.duration = register(reg, ret.duration)
	ret.expired = register(reg, ret.expired)
	return ret
}

// register panics like MustRegister on any error other than a compatible
// collector already being registered.
func register[T prometheus.Collector](reg prometheus.Registerer, collector T) T {
	err := reg.Register(collector)
	if err == nil {
		return collector
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(fmt.Errorf("register pipeline metrics: %w", err))
}

func (m *metrics) observe(outcome string, started time.Time) {
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}
