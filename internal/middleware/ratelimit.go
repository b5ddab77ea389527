package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"todo-tracker/backend/internal/i18n"
)

type RateLimiterConfig struct {
	// RequestsPerMinute is the sustained rate per client IP.
	RequestsPerMinute int
	// Burst is how many requests a fresh client may make at once.
	Burst int
	// CleanupInterval is how often idle clients are forgotten. A client is
	// idle once it has made no request for a whole interval.
	CleanupInterval time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Call Close to stop the
// cleanup goroutine.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rejected prometheus.Counter
}

func NewIPRateLimiter(cfg RateLimiterConfig, reg prometheus.Registerer) *IPRateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	rl := &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(rpm)),
		burst:    burst,
		idleTTL:  interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todo_rate_limited_requests_total",
			Help: "Requests rejected by the per-IP rate limiter.",
		}),
	}
	if reg != nil {
		reg.MustRegister(rl.rejected)
	}

	rl.wg.Add(1)
	go rl.cleanupLoop(interval)

	return rl
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware answers 429 once a client IP runs out of tokens.
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			rl.rejected.Inc()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": i18n.T(c, i18n.MsgTooManyRequests)})
			return
		}
		c.Next()
	}
}

// Len reports how many client IPs are tracked.
func (rl *IPRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

func (rl *IPRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *IPRateLimiter) cleanupLoop(interval time.Duration) {
	defer rl.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *IPRateLimiter) Close() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
	rl.wg.Wait()
}
