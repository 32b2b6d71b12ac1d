// Package monitoring provides pluggable metrics collection for Reactivity effects.
//
// The monitoring system is entirely optional; when disabled, the NoOpMetrics default records nothing.
// By default, a NoOp implementation is used which performs no operations.
//
// This package is an alias for github.com/kodelabs-go/reactivity/pkg/reactive/monitoring,
// providing a cleaner import path for users.
//
// # Features
//
//   - Effect creation count and duration tracking
//   - Provide/Inject tree depth monitoring
//   - Memory allocation tracking per effect
//   - Cache hit/miss rates for performance optimization
//   - Prometheus metrics integration
//   - pprof profiling endpoints
//
// # Example
//
//	import "github.com/kodelabs-go/reactivity/monitoring"
//
//	func main() {
//	    // Enable Prometheus metrics
//	    metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	    monitoring.SetGlobalMetrics(metrics)
//
//	    // Enable pprof profiling on port 6060
//	    monitoring.EnableProfiling(":6060")
//	    defer monitoring.StopProfiling()
//	}
//
// # Zero Overhead
//
// When monitoring is disabled (default), the NoOp methods do nothing and
// make no allocations. The engine still calls GetGlobalMetrics (which takes
// a read lock) and the NoOp methods through the EffectMetrics interface, and
// on every trigger of a tracked target it computes the dependency-graph
// snapshot passed to RecordDependencyGraphSize.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kodelabs-go/reactivity/pkg/reactive/monitoring"
)

// =============================================================================
// Global Metrics
// =============================================================================

// EffectMetrics defines the interface for effect metrics collection.
type EffectMetrics = monitoring.EffectMetrics

// GetGlobalMetrics returns the current global metrics implementation.
var GetGlobalMetrics = monitoring.GetGlobalMetrics

// SetGlobalMetrics sets the global metrics implementation.
var SetGlobalMetrics = monitoring.SetGlobalMetrics

// NoOpMetrics is a no-op implementation with zero overhead.
type NoOpMetrics = monitoring.NoOpMetrics

// =============================================================================
// Prometheus Integration
// =============================================================================

// PrometheusMetrics implements EffectMetrics using Prometheus.
type PrometheusMetrics = monitoring.PrometheusMetrics

// NewPrometheusMetrics creates a new Prometheus metrics implementation.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	return monitoring.NewPrometheusMetrics(reg)
}

// =============================================================================
// Profiling
// =============================================================================

// ProfileEffects runs effect profiling for the specified duration.
func ProfileEffects(duration time.Duration) *EffectProfile {
	return monitoring.ProfileEffects(duration)
}

// EffectProfile contains profiling results for effects.
type EffectProfile = monitoring.EffectProfile

// CallStats contains statistics about effect calls.
type CallStats = monitoring.CallStats

// =============================================================================
// pprof Profiling Endpoints
// =============================================================================

// EnableProfiling starts a pprof HTTP server on the specified address.
// Returns an error if profiling is already enabled or the address is empty;
// a failure to bind happens in a background goroutine and is not returned.
var EnableProfiling = monitoring.EnableProfiling

// StopProfiling stops the pprof HTTP server if running.
var StopProfiling = monitoring.StopProfiling

// IsProfilingEnabled returns whether pprof profiling is currently enabled.
var IsProfilingEnabled = monitoring.IsProfilingEnabled

// GetProfilingAddress returns the address of the pprof server if enabled.
var GetProfilingAddress = monitoring.GetProfilingAddress
