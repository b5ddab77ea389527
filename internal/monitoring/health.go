package monitoring

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultCheckTimeout = 5 * time.Second

type HealthCheckFunc func(ctx context.Context) error

// StatsFunc reports a component's runtime statistics for /health.
type StatsFunc func() map[string]interface{}

type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

func (h HealthCheck) Healthy() bool {
	return h.Status == "healthy"
}

// HealthChecker runs registered dependency checks on demand.
type HealthChecker struct {
	mu      sync.RWMutex
	checks  map[string]HealthCheckFunc
	stats   map[string]StatsFunc
	timeout time.Duration
	metrics *Metrics
}

func NewHealthChecker(metrics *Metrics) *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]HealthCheckFunc),
		stats:   make(map[string]StatsFunc),
		timeout: defaultCheckTimeout,
		metrics: metrics,
	}
}

func (h *HealthChecker) Register(name string, check HealthCheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *HealthChecker) RegisterStats(name string, stats StatsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats[name] = stats
}

// Run executes every check concurrently, each under its own timeout.
func (h *HealthChecker) Run(ctx context.Context) map[string]HealthCheck {
	h.mu.RLock()
	checks := make(map[string]HealthCheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]HealthCheck, len(checks))
	)
	for name, check := range checks {
		wg.Add(1)
		go func(name string, check HealthCheckFunc) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			result := HealthCheck{Name: name, Status: "healthy", LastRun: time.Now()}
			if err := check(checkCtx); err != nil {
				result.Status = "unhealthy"
				result.Message = err.Error()
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	return results
}

func allHealthy(checks map[string]HealthCheck) bool {
	for _, check := range checks {
		if !check.Healthy() {
			return false
		}
	}
	return true
}

func (h *HealthChecker) LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"timestamp": time.Now(),
		})
	}
}

func (h *HealthChecker) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := h.Run(c.Request.Context())

		if allHealthy(checks) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ready",
				"timestamp": time.Now(),
			})
			return
		}

		var failing []string
		for name, check := range checks {
			if !check.Healthy() {
				failing = append(failing, name)
			}
		}
		sort.Strings(failing)

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"failing":   failing,
			"timestamp": time.Now(),
		})
	}
}

// HealthHandler reports every check, component statistics and process
// metrics. It answers 503 when any check fails.
func (h *HealthChecker) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := h.Run(c.Request.Context())

		h.mu.RLock()
		stats := make(map[string]interface{}, len(h.stats))
		for name, fn := range h.stats {
			stats[name] = fn()
		}
		h.mu.RUnlock()

		overallStatus := "healthy"
		status := http.StatusOK
		if !allHealthy(checks) {
			overallStatus = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		response := gin.H{
			"status":    overallStatus,
			"timestamp": time.Now(),
			"checks":    checks,
			"stats":     stats,
		}
		if h.metrics != nil {
			response["system"] = h.metrics.System()
		}

		c.JSON(status, response)
	}
}
