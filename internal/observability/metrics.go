package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the aggregation
// service.
type Metrics struct {
	ReportsBuilt prometheus.Counter

	PanelFetches  *prometheus.CounterVec   // labels: panel, outcome={ok,error}
	PanelDuration *prometheus.HistogramVec // labels: panel

	GeoLookups   *prometheus.CounterVec // labels: outcome={ok,not_found,error}
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsBuilt,
		m.PanelFetches,
		m.PanelDuration,
		m.GeoLookups,
		m.CacheLookups,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "local_insights",
			Name:      "reports_built_total",
			Help:      "Total panel sets assembled.",
		}),
		PanelFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "local_insights",
			Name:      "panel_fetches_total",
			Help:      "Panel adapter invocations by panel and outcome.",
		}, []string{"panel", "outcome"}),
		PanelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "local_insights",
			Name:      "panel_fetch_duration_seconds",
			Help:      "Panel adapter fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"panel"}),
		GeoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "local_insights",
			Name:      "geo_lookups_total",
			Help:      "Postcode resolutions by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "local_insights",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
	}
}
