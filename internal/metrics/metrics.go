// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the server records to.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests          *prometheus.CounterVec
	rpcDuration          *prometheus.HistogramVec
	settlements          prometheus.Counter
	settlementTransfers  prometheus.Histogram
	activeWatchers       prometheus.Gauge
	expiredGroupsDeleted prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry
// together with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goingdutch",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "goingdutch",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "goingdutch",
			Name:      "settlements_computed_total",
			Help:      "Settlement plans computed.",
		}),
		settlementTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "goingdutch",
			Name:      "settlement_transfers",
			Help:      "Transfers per computed settlement plan.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		activeWatchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "goingdutch",
			Name:      "settlement_watchers",
			Help:      "Open settlement watch streams.",
		}),
		expiredGroupsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "goingdutch",
			Name:      "expired_groups_deleted_total",
			Help:      "Groups removed after expiring.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.settlements,
		m.settlementTransfers,
		m.activeWatchers,
		m.expiredGroupsDeleted,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRPC records one finished RPC. A nil receiver records nothing.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ObserveSettlement records one computed settlement plan.
func (m *Metrics) ObserveSettlement(transfers int) {
	if m == nil {
		return
	}
	m.settlements.Inc()
	m.settlementTransfers.Observe(float64(transfers))
}

// WatcherStarted and WatcherStopped track open watch streams.
func (m *Metrics) WatcherStarted() {
	if m == nil {
		return
	}
	m.activeWatchers.Inc()
}

func (m *Metrics) WatcherStopped() {
	if m == nil {
		return
	}
	m.activeWatchers.Dec()
}

// GroupsExpired records groups removed by the cleanup loop.
func (m *Metrics) GroupsExpired(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.expiredGroupsDeleted.Add(float64(n))
}
