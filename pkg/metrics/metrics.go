// Package metrics exposes Prometheus instruments for the checkout flow.
// A nil *Metrics is a valid no-op recorder.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout"

// Session outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeInternal        = "internal"
)

type Metrics struct {
	registry         *prometheus.Registry
	sessions         *prometheus.CounterVec
	customersCreated prometheus.Counter
	customerCacheHit *prometheus.CounterVec
	sessionDuration  prometheus.Histogram
}

// New registers the checkout instruments plus the Go and process collectors
// on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Checkout session requests by outcome.",
		}, []string{"outcome"}),
		customersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customers_created_total",
			Help:      "Payment provider customers created on first checkout.",
		}),
		customerCacheHit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customer_cache_lookups_total",
			Help:      "Customer reference cache lookups by result.",
		}, []string{"result"}),
		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Time to resolve the customer and open a checkout session.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.sessions,
		m.customersCreated,
		m.customerCacheHit,
		m.sessionDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveSession(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(outcome).Inc()
	m.sessionDuration.Observe(d.Seconds())
}

func (m *Metrics) CustomerCreated() {
	if m == nil {
		return
	}
	m.customersCreated.Inc()
}

func (m *Metrics) CustomerCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.customerCacheHit.WithLabelValues(result).Inc()
}

// Registry returns the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
