package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// EffectProfile contains profiling data for effects over a time period.
//
// It tracks all effect calls including counts, timings, and memory allocations
// for performance analysis and debugging.
//
// Fields:
//   - Start: When profiling started
//   - End: When profiling ended
//   - Calls: Map of effect names to their call statistics
//
// Example:
//
//	profile := ProfileEffects(1 * time.Minute)
//	fmt.Println(profile.Summary())
type EffectProfile struct {
	Start time.Time
	End   time.Time
	Calls map[string]*CallStats
	mu    sync.RWMutex
}

// CallStats contains statistics for effect function calls.
//
// Thread-safe: All methods lock the stats' mutex.
//
// Fields:
//   - Count: Number of times the effect was called
//   - TotalTime: Total execution time across all calls
//   - AverageTime: Average execution time per call
//   - Allocations: Total bytes allocated across all calls
type CallStats struct {
	Count       int64
	TotalTime   time.Duration
	AverageTime time.Duration
	Allocations int64
	mu          sync.Mutex
}

var (
	// Global profiling server
	profilingServer     *http.Server
	profilingAddr       string
	profilingMu         sync.Mutex
	profilingEnabled    atomic.Bool
	profilingServerDone chan struct{}
)

// EnableProfiling starts an HTTP server with pprof endpoints for runtime profiling.
//
// **Security Warning:** The profiling endpoint exposes sensitive runtime information.
// Only bind to localhost in production, never to 0.0.0.0 or public interfaces.
//
// The server exposes standard Go pprof endpoints at /debug/pprof/:
//   - /debug/pprof/ - Index page with available profiles
//   - /debug/pprof/heap - Heap memory profile
//   - /debug/pprof/goroutine - Goroutine stack traces
//   - /debug/pprof/profile - CPU profile (30s default)
//   - /debug/pprof/trace - Execution trace
//   - /debug/pprof/block - Blocking profile
//   - /debug/pprof/mutex - Mutex contention profile
//
// Parameters:
//   - addr: Address to bind the server (e.g., "localhost:6060")
//
// Returns:
//   - error: Error if profiling is already enabled or addr is empty. The
//     server is started in a background goroutine, so a failure to bind
//     addr is not reported through this return value.
//
// Example:
//
//	// Enable profiling on localhost:6060
//	if err := monitoring.EnableProfiling("localhost:6060"); err != nil {
//	    log.Fatalf("Failed to start profiling: %v", err)
//	}
//	defer monitoring.StopProfiling()
//
//	// Capture CPU profile:
//	// curl -o cpu.prof http://localhost:6060/debug/pprof/profile?seconds=30
//
//	// Analyze with pprof:
//	// go tool pprof cpu.prof
func EnableProfiling(addr string) error {
	profilingMu.Lock()
	defer profilingMu.Unlock()

	// Check if already enabled
	if profilingEnabled.Load() {
		return errors.New("profiling already enabled")
	}

	// Validate address format
	if addr == "" {
		return errors.New("address cannot be empty")
	}

	// Create mux for pprof endpoints
	mux := http.NewServeMux()

	// Register pprof handlers
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Create server
	profilingServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	profilingAddr = addr
	profilingServerDone = make(chan struct{})

	// Start server in background
	go func() {
		defer close(profilingServerDone)
		if err := profilingServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Server failed to start or crashed
			profilingEnabled.Store(false)
		}
	}()

	// Mark as enabled
	profilingEnabled.Store(true)

	// Give server time to start
	time.Sleep(50 * time.Millisecond)

	return nil
}

// StopProfiling gracefully shuts down the profiling server.
//
// Blocks until the server is fully shut down or the context times out.
//
// Example:
//
//	monitoring.EnableProfiling("localhost:6060")
//	defer monitoring.StopProfiling()
func StopProfiling() {
	profilingMu.Lock()
	defer profilingMu.Unlock()

	if !profilingEnabled.Load() || profilingServer == nil {
		return
	}

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server
	if err := profilingServer.Shutdown(ctx); err != nil {
		// Force close if graceful shutdown fails
		_ = profilingServer.Close()
	}

	// Wait for server to finish
	<-profilingServerDone

	// Reset state
	profilingServer = nil
	profilingAddr = ""
	profilingEnabled.Store(false)
}

// IsProfilingEnabled returns whether profiling is currently enabled.
//
// Thread-safe: Can be called concurrently.
//
// Example:
//
//	if monitoring.IsProfilingEnabled() {
//	    fmt.Println("Profiling is active")
//	}
func IsProfilingEnabled() bool {
	return profilingEnabled.Load()
}

// GetProfilingAddress returns the address the profiling server is bound to.
//
// Returns empty string if profiling is not enabled.
//
// Thread-safe: Can be called concurrently.
//
// Example:
//
//	addr := monitoring.GetProfilingAddress()
//	if addr != "" {
//	    fmt.Printf("Profiling available at http://%s/debug/pprof/\n", addr)
//	}
func GetProfilingAddress() string {
	profilingMu.Lock()
	defer profilingMu.Unlock()
	return profilingAddr
}

// ProfileEffects blocks for the specified duration and measures process-wide
// memory allocation over that window.
//
// The returned profile holds a single synthetic "_total_memory" entry whose
// Allocations field is the growth of runtime.MemStats.TotalAlloc during the
// window. It does not read the global metrics and records no per-effect
// calls; per-effect entries are added to a profile with AddCall.
//
// Parameters:
//   - duration: How long to measure
//
// Returns:
//   - *EffectProfile: Profile with Start, End and the "_total_memory" entry
//
// Example:
//
//	// Measure allocation over 60 seconds
//	profile := monitoring.ProfileEffects(60 * time.Second)
//
//	if stats, ok := profile.Calls["_total_memory"]; ok {
//	    fmt.Printf("Allocated %d bytes\n", stats.Allocations)
//	}
func ProfileEffects(duration time.Duration) *EffectProfile {
	profile := &EffectProfile{
		Start: time.Now(),
		Calls: make(map[string]*CallStats),
	}

	// Capture memory stats before
	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	// Wait for the duration
	time.Sleep(duration)

	// Capture memory stats after
	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	// Set end time
	profile.End = time.Now()

	// Calculate memory allocations during profiling
	// This is a rough estimate of total allocations during the period
	totalAlloc := memAfter.TotalAlloc - memBefore.TotalAlloc

	// Add a synthetic entry for overall memory during profiling
	profile.Calls["_total_memory"] = &CallStats{
		Count:       1,
		Allocations: int64(totalAlloc),
	}

	return profile
}

// AddCall adds a effect call to the profile.
//
// Thread-safe: Can be called concurrently from multiple goroutines.
//
// Parameters:
//   - name: Name of the effect (e.g., "UseState", "UseForm")
//   - duration: Execution time of the call
//   - allocBytes: Bytes allocated during the call
//
// Example:
//
//	profile := &EffectProfile{
//	    Start: time.Now(),
//	    Calls: make(map[string]*CallStats),
//	}
//	
//	profile.AddCall("UseState", 100*time.Nanosecond, 128)
//	profile.AddCall("UseForm", 500*time.Nanosecond, 256)
func (p *EffectProfile) AddCall(name string, duration time.Duration, allocBytes int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats, exists := p.Calls[name]
	if !exists {
		stats = &CallStats{}
		p.Calls[name] = stats
	}

	stats.RecordCall(duration, allocBytes)
}

// Summary generates a human-readable summary of the profile.
//
// Returns a formatted string with call statistics for all effects.
//
// Example output:
//
//	Effect Profile (1m0s):
//	
//	UseState: 1000 calls, avg 350ns, 131072 bytes allocated
//	UseForm: 500 calls, avg 750ns, 131072 bytes allocated
//	UseAsync: 200 calls, avg 3.7µs, 71680 bytes allocated
func (p *EffectProfile) Summary() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	duration := p.End.Sub(p.Start)
	summary := fmt.Sprintf("Effect Profile (%v):\n\n", duration)

	// Calculate averages for all stats
	for name, stats := range p.Calls {
		if name == "_total_memory" {
			continue // Skip synthetic entry
		}
		stats.CalculateAverage()
		
		summary += fmt.Sprintf("%s: %d calls, avg %v, %d bytes allocated\n",
			name, stats.Count, stats.AverageTime, stats.Allocations)
	}

	return summary
}

// RecordCall records a single effect call.
//
// Thread-safe: Uses mutex for concurrent access.
//
// Parameters:
//   - duration: Execution time of the call
//   - allocBytes: Bytes allocated during the call
func (s *CallStats) RecordCall(duration time.Duration, allocBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.Count, 1)
	s.TotalTime += duration
	atomic.AddInt64(&s.Allocations, allocBytes)
}

// CalculateAverage computes the average execution time per call.
//
// Should be called after all calls are recorded and before reading AverageTime.
//
// Example:
//
//	stats.CalculateAverage()
//	fmt.Printf("Average time: %v\n", stats.AverageTime)
func (s *CallStats) CalculateAverage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Count > 0 {
		s.AverageTime = time.Duration(int64(s.TotalTime) / s.Count)
	}
}
