package observability

import (
	"net/http"

	"github.com/aretw0/mcdata/pkg/resolve"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine collectors.
type Metrics struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	cycles      *prometheus.CounterVec
	invalidated *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcdata_resolutions_total",
				Help: "Total number of resolver invocations",
			},
			[]string{"graph"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcdata_resolution_errors_total",
				Help: "Total number of resolver invocations that returned an error",
			},
			[]string{"graph"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcdata_cache_hits_total",
				Help: "Total number of reads served from a memoized value",
			},
			[]string{"graph"},
		),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcdata_cycles_total",
				Help: "Total number of reads that hit a record still in progress",
			},
			[]string{"graph"},
		),
		invalidated: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcdata_invalidation_size",
				Help:    "Records cleared per invalidation",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"graph"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "mcdata_resolution_duration_seconds",
				Help: "Duration of resolver invocations, nested reads included",
			},
			[]string{"graph"},
		),
	}
	m.registry.MustRegister(m.resolutions, m.failures, m.cacheHits, m.cycles, m.invalidated, m.duration)
	return m
}

// Hooks returns engine hooks that record into m under the graph label.
func (m *Metrics) Hooks(graph string) resolve.Hooks {
	return resolve.Hooks{
		OnResolve: func(e resolve.Event) {
			m.resolutions.WithLabelValues(graph).Inc()
			m.duration.WithLabelValues(graph).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.failures.WithLabelValues(graph).Inc()
			}
		},
		OnCacheHit: func(resolve.Event) {
			m.cacheHits.WithLabelValues(graph).Inc()
		},
		OnCycle: func(resolve.Event) {
			m.cycles.WithLabelValues(graph).Inc()
		},
		OnInvalidate: func(e resolve.Event) {
			m.invalidated.WithLabelValues(graph).Observe(float64(e.Count))
		},
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
