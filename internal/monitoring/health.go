// Package monitoring serves the liveness and storage reachability report.
package monitoring

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthCheckFunc func(ctx context.Context) error

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusDisabled    = "disabled"
)

type HealthReport struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	DB            string `json:"db"`
	Cache         string `json:"cache"`
}

// HealthChecker probes storage and, when configured, the cache. Only storage
// decides the outcome.
type HealthChecker struct {
	startedAt time.Time
	timeout   time.Duration
	storage   HealthCheckFunc
	cache     HealthCheckFunc
}

func NewHealthChecker(storage HealthCheckFunc) *HealthChecker {
	return &HealthChecker{
		startedAt: time.Now(),
		timeout:   3 * time.Second,
		storage:   storage,
	}
}

// WithCache adds a cache probe reported as "ok" or "unavailable".
func (h *HealthChecker) WithCache(check HealthCheckFunc) *HealthChecker {
	h.cache = check
	return h
}

func (h *HealthChecker) Check(ctx context.Context) (HealthReport, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := HealthReport{
		Status:        StatusOK,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		DB:            StatusOK,
		Cache:         StatusDisabled,
	}

	if h.cache != nil {
		report.Cache = StatusOK
		if err := h.cache(ctx); err != nil {
			log.Printf("[health] cache check failed: %v", err)
			report.Cache = StatusUnavailable
		}
	}

	if h.storage == nil {
		return report, false
	}
	if err := h.storage(ctx); err != nil {
		log.Printf("[health] database check failed: %v", err)
		report.Status = StatusUnavailable
		report.DB = StatusUnavailable
		return report, false
	}
	return report, true
}

func (h *HealthChecker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, healthy := h.Check(c.Request.Context())
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "Database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    report,
		})
	}
}
