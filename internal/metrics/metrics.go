// Package metrics holds the Prometheus collectors for chain reads,
// reconciliation runs and HTTP traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rwaconsole"

// Metrics is the collector set for one process.
type Metrics struct {
	registry *prometheus.Registry

	// ChainReads counts contract calls by method and result (ok, error).
	ChainReads *prometheus.CounterVec
	// SyncRuns counts reconciliations by trigger (request, schedule) and outcome.
	SyncRuns *prometheus.CounterVec
	// SyncDuration observes reconciliation latency for one wallet.
	SyncDuration prometheus.Histogram
	// HTTPRequests counts requests by method, route and status.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes request latency by route.
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers the collector set on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ChainReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "reads_total",
			Help:      "Contract view calls by method and result",
		}, []string{"method", "result"}),
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Wallet reconciliations by trigger and outcome",
		}, []string{"trigger", "outcome"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Wallet reconciliation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ChainReads,
		m.SyncRuns,
		m.SyncDuration,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveChainRead records a contract call outcome.
func (m *Metrics) ObserveChainRead(method string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ChainReads.WithLabelValues(method, result).Inc()
}
