// Package metrics holds the Prometheus collectors for the platform service.
// Every method is safe to call on a nil *Metrics so services can run
// without instrumentation in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kyros"

// Role lookup results.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
	LookupTimeout  = "timeout"
)

type Metrics struct {
	registry *prometheus.Registry

	ExchangeOutcomes   *prometheus.CounterVec
	GateRejections     *prometheus.CounterVec
	RoleLookupDuration *prometheus.HistogramVec
	AuditPruned        prometheus.Counter
}

// New builds a private registry with the service collectors plus the Go
// runtime and process collectors.
func New() *Metrics {
	const subsystem = "platform"

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ExchangeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "token_exchanges_total",
			Help:      "Count of token exchange attempts by outcome",
		}, []string{"outcome"}),

		GateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "auth_rejections_total",
			Help:      "Count of rejected requests by error code and internal reason",
		}, []string{"code", "reason"}),

		RoleLookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "role_lookup_duration_seconds",
			Help:      "Histogram of time spent resolving a user's role in a tenant",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 8),
		}, []string{"result"}),

		AuditPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "exchange_audit_pruned_total",
			Help:      "Count of exchange audit rows removed by retention",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.registry.MustRegister(m.PrometheusCollectors()...)
	return m
}

func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ExchangeOutcomes,
		m.GateRejections,
		m.RoleLookupDuration,
		m.AuditPruned,
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveExchange(outcome string) {
	if m == nil {
		return
	}
	m.ExchangeOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveRejection matches the Gate and guard OnReject signature.
func (m *Metrics) ObserveRejection(code, reason string) {
	if m == nil {
		return
	}
	m.GateRejections.WithLabelValues(code, reason).Inc()
}

func (m *Metrics) ObserveRoleLookup(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.RoleLookupDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) ObserveAuditPruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.AuditPruned.Add(float64(n))
}
