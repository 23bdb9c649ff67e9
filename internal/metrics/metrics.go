package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal        *prometheus.CounterVec
	cacheHitTotal     *prometheus.CounterVec
	substitutionTotal *prometheus.CounterVec

	// Registration guard
	metricsOnce       sync.Once
	metricsRegistered bool
)

// ResolutionMetrics provides methods to record resolution metrics.
type ResolutionMetrics struct{}

// NewResolutionMetrics creates a new ResolutionMetrics instance.
// Metrics are no-ops until Init has been called.
func NewResolutionMetrics() *ResolutionMetrics {
	return &ResolutionMetrics{}
}

// Init registers all Prometheus metrics. Call once at startup when
// metrics are enabled; resolution passes that run without Init record
// nothing.
func Init() {
	metricsOnce.Do(func() {
		fetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultfill_fetch_total",
				Help: "Total number of backend item fetches",
			},
			[]string{"vault", "outcome"},
		)

		cacheHitTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultfill_cache_hit_total",
				Help: "Total number of item cache hits",
			},
			[]string{"kind"},
		)

		substitutionTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultfill_substitution_total",
				Help: "Total number of placeholder substitutions",
			},
			[]string{"outcome"},
		)

		metricsRegistered = true
	})
}

// RecordFetch records a backend fetch attempt against one vault.
func (m *ResolutionMetrics) RecordFetch(vault, outcome string) {
	if !metricsRegistered || fetchTotal == nil {
		return
	}
	fetchTotal.WithLabelValues(vault, outcome).Inc()
}

// RecordCacheHit records an item cache hit. kind is "item" or "failure".
func (m *ResolutionMetrics) RecordCacheHit(kind string) {
	if !metricsRegistered || cacheHitTotal == nil {
		return
	}
	cacheHitTotal.WithLabelValues(kind).Inc()
}

// RecordSubstitution records one placeholder substitution outcome.
func (m *ResolutionMetrics) RecordSubstitution(outcome string) {
	if !metricsRegistered || substitutionTotal == nil {
		return
	}
	substitutionTotal.WithLabelValues(outcome).Inc()
}
