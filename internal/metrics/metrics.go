// Package metrics defines Prometheus metrics for citegraph.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citegraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citegraph_lookup_duration_seconds",
			Help:    "Citation lookup round-trip duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"status"},
	)

	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_lookups_total",
			Help: "Citation lookups by outcome",
		},
		[]string{"status"},
	)

	ExpansionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_expansions_total",
			Help: "Nodes expanded during traversal by direction",
		},
		[]string{"direction"},
	)

	SweepCellsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_sweep_cells_total",
			Help: "Depth sweep cells by outcome",
		},
		[]string{"outcome"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "citegraph_ws_connections",
			Help: "Active event stream WebSocket connections",
		},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_events_published_total",
			Help: "Events published to the event stream by type",
		},
		[]string{"type"},
	)

	CircuitOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "citegraph_lookup_circuit_open",
			Help: "1 when the lookup circuit breaker is open",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		LookupDuration, LookupsTotal,
		ExpansionsTotal, SweepCellsTotal, CircuitOpen,
		WSConnections, EventsPublished,
	)
}
