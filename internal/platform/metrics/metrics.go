// Package metrics exposes Prometheus metrics for HTTP traffic and audit
// delivery on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/taskly/tasks-api/internal/audit"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics owns the registry and every collector the service reports.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	auditWritten *prometheus.CounterVec
	auditDropped *prometheus.CounterVec
	auditFailed  *prometheus.CounterVec
}

var _ audit.Metrics = (*Metrics)(nil)

// New registers all collectors under namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		auditWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_written_total",
			Help:      "Audit events written to the sink.",
		}, []string{"action"}),
		auditDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Audit events dropped before reaching the sink.",
		}, []string{"action", "reason"}),
		auditFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_sink_failures_total",
			Help:      "Audit events the sink failed to write.",
		}, []string{"action"}),
	}

	registry.MustRegister(m.requests, m.duration, m.auditWritten, m.auditDropped, m.auditFailed)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts and times requests. It labels by chi route pattern, so it
// must be mounted on a chi router.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// EventWritten implements audit.Metrics.
func (m *Metrics) EventWritten(kind audit.Kind) {
	m.auditWritten.WithLabelValues(string(kind)).Inc()
}

// EventDropped implements audit.Metrics.
func (m *Metrics) EventDropped(kind audit.Kind, reason string) {
	m.auditDropped.WithLabelValues(string(kind), reason).Inc()
}

// SinkFailed implements audit.Metrics.
func (m *Metrics) SinkFailed(kind audit.Kind) {
	m.auditFailed.WithLabelValues(string(kind)).Inc()
}
