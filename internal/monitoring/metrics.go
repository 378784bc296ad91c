// Package monitoring keeps in-process request metrics and runs the
// dependency checks behind the health endpoints.
package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Metrics struct {
	mu             sync.RWMutex
	requestCount   int64
	activeRequests int64
	errorCount     int64
	totalDuration  time.Duration
	statusCodes    map[int]int64
	endpoints      map[string]int64
	startTime      time.Time
	lastRequest    time.Time
}

// Snapshot is a point-in-time copy of the request metrics.
type Snapshot struct {
	RequestCount   int64            `json:"request_count"`
	AvgDurationMs  float64          `json:"avg_request_duration_ms"`
	ActiveRequests int64            `json:"active_requests"`
	ErrorCount     int64            `json:"error_count"`
	StatusCodes    map[int]int64    `json:"status_codes"`
	Endpoints      map[string]int64 `json:"endpoint_calls"`
	StartTime      time.Time        `json:"start_time"`
	LastRequest    time.Time        `json:"last_request"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		statusCodes: make(map[int]int64),
		endpoints:   make(map[string]int64),
		startTime:   time.Now(),
	}
}

// Middleware records one sample per request. Unmatched routes are grouped
// under the method alone so arbitrary paths cannot grow the endpoint map.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mu.Lock()
		m.activeRequests++
		m.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		endpoint := c.Request.Method
		if route := c.FullPath(); route != "" {
			endpoint += " " + route
		}

		m.mu.Lock()
		m.requestCount++
		m.activeRequests--
		m.totalDuration += duration
		m.lastRequest = time.Now()
		if status >= 400 {
			m.errorCount++
		}
		m.statusCodes[status]++
		m.endpoints[endpoint]++
		m.mu.Unlock()
	}
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		RequestCount:   m.requestCount,
		ActiveRequests: m.activeRequests,
		ErrorCount:     m.errorCount,
		StatusCodes:    make(map[int]int64, len(m.statusCodes)),
		Endpoints:      make(map[string]int64, len(m.endpoints)),
		StartTime:      m.startTime,
		LastRequest:    m.lastRequest,
	}
	if m.requestCount > 0 {
		avg := m.totalDuration / time.Duration(m.requestCount)
		snap.AvgDurationMs = float64(avg) / float64(time.Millisecond)
	}
	for k, v := range m.statusCodes {
		snap.StatusCodes[k] = v
	}
	for k, v := range m.endpoints {
		snap.Endpoints[k] = v
	}
	return snap
}

func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

type SystemMetrics struct {
	Uptime         string      `json:"uptime"`
	MemoryUsage    MemoryStats `json:"memory"`
	GoroutineCount int         `json:"goroutine_count"`
	CPUCount       int         `json:"cpu_count"`
	GoVersion      string      `json:"go_version"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc_mb"`
	TotalAlloc   uint64 `json:"total_alloc_mb"`
	Sys          uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	NextGC       uint64 `json:"next_gc_mb"`
	GCPauseTotal string `json:"gc_pause_total"`
}

func (m *Metrics) System() SystemMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SystemMetrics{
		Uptime: m.Uptime().Round(time.Second).String(),
		MemoryUsage: MemoryStats{
			Alloc:        bToMb(mem.Alloc),
			TotalAlloc:   bToMb(mem.TotalAlloc),
			Sys:          bToMb(mem.Sys),
			NumGC:        mem.NumGC,
			NextGC:       bToMb(mem.NextGC),
			GCPauseTotal: time.Duration(mem.PauseTotalNs).String(),
		},
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

type CheckFunc func(ctx context.Context) error

type CheckResult struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

func (r CheckResult) Healthy() bool {
	return r.Status == StatusHealthy
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthChecker runs registered dependency checks on demand. Each check
// gets its own timeout.
type HealthChecker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{checks: make(map[string]CheckFunc), timeout: timeout}
}

func (h *HealthChecker) Register(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Run executes every check concurrently and returns the results ordered by
// name.
func (h *HealthChecker) Run(ctx context.Context) []CheckResult {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make([]CheckFunc, len(names))
	sort.Strings(names)
	for i, name := range names {
		checks[i] = h.checks[name]
	}
	h.mu.RUnlock()

	results := make([]CheckResult, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.runOne(ctx, names[i], checks[i])
		}(i)
	}
	wg.Wait()
	return results
}

func (h *HealthChecker) runOne(ctx context.Context, name string, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result := CheckResult{Name: name, Status: StatusHealthy, LastRun: time.Now()}
	if err := check(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}

func allHealthy(results []CheckResult) bool {
	for _, r := range results {
		if !r.Healthy() {
			return false
		}
	}
	return true
}

func MetricsHandler(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"application": m.Snapshot(),
			"system":      m.System(),
			"timestamp":   time.Now().UTC(),
		})
	}
}

func HealthHandler(m *Metrics, h *HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := h.Run(c.Request.Context())

		status, code := StatusHealthy, http.StatusOK
		if !allHealthy(results) {
			status, code = StatusUnhealthy, http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"checks":    results,
			"uptime":    m.Uptime().Round(time.Second).String(),
		})
	}
}

func ReadinessHandler(h *HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allHealthy(h.Run(c.Request.Context())) {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now().UTC()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "timestamp": time.Now().UTC()})
	}
}

func LivenessHandler(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"timestamp": time.Now().UTC(),
			"uptime":    m.Uptime().Round(time.Second).String(),
		})
	}
}
