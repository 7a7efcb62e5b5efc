// Package observability wires the adapter's ambient instrumentation:
// Prometheus metrics, OpenTelemetry tracing, and the localhost admin
// surface. None of it participates in the debugger protocol itself —
// every exported recorder here is safe to call from a nil-op adapter
// deploy where nobody ever scrapes /metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// DISPATCH METRICS
// =============================================================================

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lldb_adapter_dispatch_requests_total",
		Help: "Requests routed by the dispatcher, by variant and outcome.",
	}, []string{"variant", "outcome"})

	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lldb_adapter_dispatch_duration_seconds",
		Help:    "Time to route and handle one request, by variant.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"variant"})
)

// RecordDispatch records one completed request/response round trip.
// outcome is "ok" or "error"; variant is the RequestVariant's Name().
func RecordDispatch(variant string, outcome string, d time.Duration) {
	dispatchTotal.WithLabelValues(variant, outcome).Inc()
	dispatchDuration.WithLabelValues(variant).Observe(d.Seconds())
}

// =============================================================================
// EVENT PUMP METRICS
// =============================================================================

var (
	eventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lldb_adapter_events_emitted_total",
		Help: "Unsolicited protocol events written to the client, by variant.",
	}, []string{"variant"})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lldb_adapter_events_dropped_total",
		Help: "Engine notifications that could not be translated or written.",
	}, []string{"reason"})
)

// RecordEventEmitted counts one event successfully written to the wire.
func RecordEventEmitted(variant string) {
	eventsEmitted.WithLabelValues(variant).Inc()
}

// RecordEventDropped counts one engine notification that never reached
// the client (translation failure, write failure, or an unrecognized
// notification kind).
func RecordEventDropped(reason string) {
	eventsDropped.WithLabelValues(reason).Inc()
}

// =============================================================================
// REGISTRY METRICS
// =============================================================================

var registrySize = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "lldb_adapter_registry_entries",
	Help: "Live registry entries, by object kind.",
}, []string{"kind"})

// SetRegistrySize reports the current occupancy for one registry kind.
// Callers sample this periodically rather than on every Intern/Forget,
// since the registry itself doesn't push — see cmd/adapter's
// server.pollMetrics.
func SetRegistrySize(kind string, n int) {
	registrySize.WithLabelValues(kind).Set(float64(n))
}

// =============================================================================
// BREAKPOINT METRICS
// =============================================================================

var (
	breakpointsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lldb_adapter_breakpoints_active",
		Help: "Currently registered breakpoints/watchpoints, by kind.",
	}, []string{"kind"})

	breakpointHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lldb_adapter_breakpoint_hits_total",
		Help: "Breakpoint/watchpoint hit notifications forwarded to the client.",
	}, []string{"kind"})
)

// SetBreakpointsActive reports the current count for one breakpoint
// kind ("breakpoint" or "watchpoint").
func SetBreakpointsActive(kind string, n int) {
	breakpointsActive.WithLabelValues(kind).Set(float64(n))
}

// RecordBreakpointHit counts one BreakpointHit notification forwarded
// downstream.
func RecordBreakpointHit(kind string) {
	breakpointHits.WithLabelValues(kind).Inc()
}

// =============================================================================
// CONNECTION METRICS
// =============================================================================

var connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "lldb_adapter_connections_active",
	Help: "Client connections currently being served.",
})

// ConnectionOpened/ConnectionClosed track concurrently served clients.
func ConnectionOpened() { connectionsActive.Inc() }
func ConnectionClosed() { connectionsActive.Dec() }
