// Package metrics exposes Prometheus counters and latency histograms for the
// HTTP API and a few domain events.
//
// All record methods are nil-safe so feature handlers built without metrics
// (tests, tools) need no guards.
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
)

// Metrics holds the registry and the collectors registered on it.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec   // method, route, status
	RequestLatency  *prometheus.HistogramVec // method, route
	RecordsCreated  *prometheus.CounterVec   // kind
	RecordsDeleted  *prometheus.CounterVec   // kind
	BillingChanges  *prometheus.CounterVec   // op
	UpdateConflicts prometheus.Counter
}

// New builds a Metrics with its own registry, namespaced by namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RecordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created by kind.",
		}, []string{"kind"}),
		RecordsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Records deleted by kind.",
		}, []string{"kind"}),
		BillingChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billing_changes_total",
			Help:      "Persisted billing aggregate changes by operation.",
		}, []string{"op"}),
		UpdateConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_conflicts_total",
			Help:      "Writes rejected because the record changed underneath them.",
		}),
	}
	reg.MustRegister(
		m.RequestsTotal,
		m.RequestLatency,
		m.RecordsCreated,
		m.RecordsDeleted,
		m.BillingChanges,
		m.UpdateConflicts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records a count and a latency observation per request, labelled
// with the matched chi route pattern so ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Created counts a new record of kind.
func (m *Metrics) Created(kind string) {
	if m != nil {
		m.RecordsCreated.WithLabelValues(kind).Inc()
	}
}

// Deleted counts a removed record of kind.
func (m *Metrics) Deleted(kind string) {
	if m != nil {
		m.RecordsDeleted.WithLabelValues(kind).Inc()
	}
}

// BillingChanged counts a persisted billing operation.
func (m *Metrics) BillingChanged(op string) {
	if m != nil {
		m.BillingChanges.WithLabelValues(op).Inc()
	}
}

// Conflict counts a lost optimistic write.
func (m *Metrics) Conflict() {
	if m != nil {
		m.UpdateConflicts.Inc()
	}
}
