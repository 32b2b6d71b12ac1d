package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements EffectMetrics using Prometheus for metric collection.
//
// This implementation exposes metrics in the Prometheus format, allowing them to be
// scraped by a Prometheus server and visualized in dashboards like Grafana.
//
// All metrics are prefixed with "reactivity_" to avoid naming conflicts.
//
// Metrics exposed:
//   - reactivity_effect_creations_total: Counter of effect creations by name
//   - reactivity_provide_inject_depth: Histogram of provide/inject tree depth
//   - reactivity_allocation_bytes: Histogram of memory allocations by effect
//   - reactivity_cache_hits_total: Counter of cache hits by cache name
//   - reactivity_cache_misses_total: Counter of cache misses by cache name
//   - reactivity_dependency_graph_targets: Gauge of registered target count
//   - reactivity_dependency_graph_avg_deps_per_effect: Gauge of average deps per effect
//
// Thread-safe: All Prometheus collectors are thread-safe by design.
//
// Example:
//
//	func main() {
//	    // Create Prometheus metrics
//	    metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	    monitoring.SetGlobalMetrics(metrics)
//
//	    // Expose metrics endpoint
//	    http.Handle("/metrics", promhttp.Handler())
//	    http.ListenAndServe(":2112", nil)
//	}
type PrometheusMetrics struct {
	effectCreations     *prometheus.CounterVec
	provideInjectDepth  prometheus.Histogram
	allocationBytes     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	depGraphTargets     prometheus.Gauge
	depGraphAvgDeps     prometheus.Gauge
	registry            prometheus.Registerer
}

// NewPrometheusMetrics creates a new Prometheus metrics collector and registers all metrics.
//
// The provided Registerer is used to register all metrics. You can use:
//   - prometheus.DefaultRegisterer for the global default registry
//   - prometheus.NewRegistry() for a custom isolated registry
//
// All metrics are registered immediately. If any metric fails to register (e.g., duplicate),
// this function will panic. This is intentional for fail-fast behavior at startup.
//
// Parameters:
//   - reg: The Prometheus Registerer to use for metric registration
//
// Returns:
//   - *PrometheusMetrics: A new Prometheus metrics collector
//
// Example:
//
//	// Use default registry
//	metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//
//	// Use custom registry
//	reg := prometheus.NewRegistry()
//	metrics := monitoring.NewPrometheusMetrics(reg)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	// Create effect creations counter
	// Labels: name (effect name like "UseState", "UseForm", etc.)
	effectCreations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactivity_effect_creations_total",
			Help: "Total number of effect creations, partitioned by effect name.",
		},
		[]string{"name"},
	)

	// Create provide/inject depth histogram
	// Buckets: 0, 1, 2, 3, 5, 7, 10, 15, 20 (reasonable tree depths)
	provideInjectDepth := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reactivity_provide_inject_depth",
			Help:    "Histogram of provide/inject tree depth, indicating component nesting levels.",
			Buckets: []float64{0, 1, 2, 3, 5, 7, 10, 15, 20},
		},
	)

	// Create allocation bytes histogram
	// Labels: effect (effect name)
	// Buckets: 64B, 128B, 256B, 512B, 1KB, 2KB, 4KB, 8KB (typical allocation sizes)
	allocationBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reactivity_allocation_bytes",
			Help:    "Histogram of memory allocation sizes in bytes, partitioned by effect.",
			Buckets: []float64{64, 128, 256, 512, 1024, 2048, 4096, 8192},
		},
		[]string{"effect"},
	)

	// Create cache hits counter
	// Labels: cache (cache name like "reflection", "timer", etc.)
	cacheHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactivity_cache_hits_total",
			Help: "Total number of cache hits, partitioned by cache name.",
		},
		[]string{"cache"},
	)

	// Create cache misses counter
	// Labels: cache (cache name like "reflection", "timer", etc.)
	cacheMisses := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactivity_cache_misses_total",
			Help: "Total number of cache misses, partitioned by cache name.",
		},
		[]string{"cache"},
	)

	// Create dependency-graph size gauges
	depGraphTargets := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reactivity_dependency_graph_targets",
			Help: "Current number of targets registered in the dependency graph.",
		},
	)
	depGraphAvgDeps := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reactivity_dependency_graph_avg_deps_per_effect",
			Help: "Average number of deps each currently live effect is subscribed to.",
		},
	)

	// Register all metrics (will panic on duplicate registration - fail fast)
	reg.MustRegister(effectCreations)
	reg.MustRegister(provideInjectDepth)
	reg.MustRegister(allocationBytes)
	reg.MustRegister(cacheHits)
	reg.MustRegister(cacheMisses)
	reg.MustRegister(depGraphTargets)
	reg.MustRegister(depGraphAvgDeps)

	return &PrometheusMetrics{
		effectCreations:    effectCreations,
		provideInjectDepth: provideInjectDepth,
		allocationBytes:    allocationBytes,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		depGraphTargets:    depGraphTargets,
		depGraphAvgDeps:    depGraphAvgDeps,
		registry:           reg,
	}
}

// RecordEffectCreation records when a effect is created.
//
// Increments the reactivity_effect_creations_total counter for the given effect name.
// The duration parameter is currently not used but available for future enhancements
// (e.g., recording creation time histograms).
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - name: The effect name (e.g., "UseState", "UseForm", "UseAsync")
//   - duration: How long the effect took to initialize (informational, not currently recorded)
//
// Example:
//
//	metrics.RecordEffectCreation("UseState", 150*time.Nanosecond)
func (pm *PrometheusMetrics) RecordEffectCreation(name string, duration time.Duration) {
	pm.effectCreations.WithLabelValues(name).Inc()
	// Note: duration is available for future enhancements (e.g., creation time histogram)
	// For now, we only count creations
}

// RecordProvideInjectDepth records the depth of the provide/inject tree.
//
// Adds an observation to the reactivity_provide_inject_depth histogram.
// Tree depth indicates component nesting levels - high values (>10) may indicate
// overly complex component hierarchies that should be refactored.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - depth: The current tree depth (0 = root, 1 = first level child, etc.)
//
// Example:
//
//	metrics.RecordProvideInjectDepth(5) // 5 levels deep
func (pm *PrometheusMetrics) RecordProvideInjectDepth(depth int) {
	pm.provideInjectDepth.Observe(float64(depth))
}

// RecordAllocationBytes records memory allocation for a effect.
//
// Adds an observation to the reactivity_allocation_bytes histogram for the given effect.
// Helps track memory usage patterns and identify memory-heavy effects.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - effect: The effect name (e.g., "UseForm", "UseState")
//   - bytes: Number of bytes allocated
//
// Example:
//
//	metrics.RecordAllocationBytes("UseForm", 2048) // 2KB allocated
func (pm *PrometheusMetrics) RecordAllocationBytes(effect string, bytes int64) {
	pm.allocationBytes.WithLabelValues(effect).Observe(float64(bytes))
}

// RecordCacheHit records a cache hit.
//
// Increments the reactivity_cache_hits_total counter for the given cache.
// Used to monitor cache effectiveness (compare hits vs misses).
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - cache: The cache name (e.g., "reflection", "timer")
//
// Example:
//
//	metrics.RecordCacheHit("reflection") // Cache hit for reflection cache
func (pm *PrometheusMetrics) RecordCacheHit(cache string) {
	pm.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
//
// Increments the reactivity_cache_misses_total counter for the given cache.
// Used to monitor cache effectiveness (compare hits vs misses).
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - cache: The cache name (e.g., "reflection", "timer")
//
// Example:
//
//	metrics.RecordCacheMiss("timer") // Cache miss for timer cache
func (pm *PrometheusMetrics) RecordCacheMiss(cache string) {
	pm.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordDependencyGraphSize records a snapshot of dependency-graph size.
//
// Sets the reactivity_dependency_graph_targets and
// reactivity_dependency_graph_avg_deps_per_effect gauges to the given
// values, overwriting whatever was previously recorded.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - targets: Current number of targets in the dependency graph
//   - avgDepsPerEffect: Average deps per live effect
//
// Example:
//
//	metrics.RecordDependencyGraphSize(42, 2.5)
func (pm *PrometheusMetrics) RecordDependencyGraphSize(targets int, avgDepsPerEffect float64) {
	pm.depGraphTargets.Set(float64(targets))
	pm.depGraphAvgDeps.Set(avgDepsPerEffect)
}
