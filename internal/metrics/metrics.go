// Package metrics holds the Prometheus registry for PolyTrigger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles every PolyTrigger metric so the HTTP layer and the
// data layer share one set of collectors.
type Registry struct {
	ParseRequests    *prometheus.CounterVec // result: valid|invalid
	ParseWarnings    prometheus.Counter
	ParseDuration    prometheus.Histogram
	UpstreamRequests *prometheus.CounterVec // upstream, result: ok|error
	Fallbacks        *prometheus.CounterVec // upstream
	CacheHits        *prometheus.CounterVec // cache_type
	CacheMisses      *prometheus.CounterVec // cache_type
	Signups          *prometheus.CounterVec // result: created|duplicate|rate_limited|invalid
	WSClients        prometheus.Gauge
}

// NewRegistry creates all collectors with the polytrigger namespace.
func NewRegistry() *Registry {
	return &Registry{
		ParseRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polytrigger_parse_requests_total",
				Help: "Total strategy parse requests by validation result",
			},
			[]string{"result"},
		),
		ParseWarnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "polytrigger_parse_warnings_total",
				Help: "Total soft warnings emitted by the strategy parser",
			},
		),
		ParseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "polytrigger_parse_duration_seconds",
				Help:    "Strategy parse latency in seconds",
				Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
			},
		),
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polytrigger_upstream_requests_total",
				Help: "Upstream market-data requests by upstream and result",
			},
			[]string{"upstream", "result"},
		),
		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polytrigger_fallbacks_total",
				Help: "Times mock data was served because an upstream failed",
			},
			[]string{"upstream"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polytrigger_cache_hits_total",
				Help: "Cache hits by cache type",
			},
			[]string{"cache_type"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polytrigger_cache_misses_total",
				Help: "Cache misses by cache type",
			},
			[]string{"cache_type"},
		),
		Signups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polytrigger_signups_total",
				Help: "Early-access signup attempts by result",
			},
			[]string{"result"},
		),
		WSClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "polytrigger_ws_clients",
				Help: "Currently connected ticker websocket clients",
			},
		),
	}
}

// Register attaches every collector to the given registerer.
func (r *Registry) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		r.ParseRequests,
		r.ParseWarnings,
		r.ParseDuration,
		r.UpstreamRequests,
		r.Fallbacks,
		r.CacheHits,
		r.CacheMisses,
		r.Signups,
		r.WSClients,
	)
}
