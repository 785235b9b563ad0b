// Package metrics collects operational counters and exposes them in
// Prometheus text format.
//
// Every recording method is safe on a nil *Metrics so components can be
// constructed without a registry in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "calcauth"

// Components reported through InternalFailure.
const (
	ComponentHasher = "hasher"
	ComponentToken  = "token"
	ComponentStore  = "store"
	ComponentHTTP   = "http"
)

type Metrics struct {
	registry *prometheus.Registry

	logins           *prometheus.CounterVec
	registrations    *prometheus.CounterVec
	guardRejections  *prometheus.CounterVec
	internalFailures *prometheus.CounterVec
	calculations     *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New builds a registry with the process and Go collectors plus the
// application vectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"outcome"}),
		guardRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Protected requests rejected by the session guard, by reason.",
		}, []string{"reason"}),
		internalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "internal_failures_total",
			Help:      "Internal failures (hashing, signing, decoding, storage) by component.",
		}, []string{"component"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Calculator requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.logins,
		m.registrations,
		m.guardRejections,
		m.internalFailures,
		m.calculations,
		m.requestDuration,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry. A nil receiver serves an empty registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Login(success bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome(success)).Inc()
}

func (m *Metrics) Registration(success bool) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome(success)).Inc()
}

func (m *Metrics) GuardRejected(reason string) {
	if m == nil {
		return
	}
	m.guardRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) InternalFailure(component string) {
	if m == nil {
		return
	}
	m.internalFailures.WithLabelValues(component).Inc()
}

func (m *Metrics) Calculation(operation string, success bool) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(operation, outcome(success)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
