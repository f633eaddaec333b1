package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mhaveles/airbnboptimizer/internal/pkg/httputil"
	"github.com/mhaveles/airbnboptimizer/internal/tablestore"
)

const healthVersion = "1.0.0"

// HealthStatus is the overall health report.
type HealthStatus struct {
	Status  string                    `json:"status"`
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck is the health of a single dependency.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthChecker probes the record store and Redis. Either dependency may
// be nil and reports not_configured.
type HealthChecker struct {
	store       tablestore.Store
	redisClient *redis.Client
	startTime   time.Time
}

// NewHealthChecker creates a HealthChecker.
func NewHealthChecker(store tablestore.Store, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{
		store:       store,
		redisClient: redisClient,
		startTime:   time.Now(),
	}
}

// HandleHealth reports dependency health.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]ComponentCheck{
		"tablestore": hc.checkStore(ctx),
		"redis":      hc.checkRedis(ctx),
	}

	overall := "healthy"
	status := http.StatusOK
	for _, c := range checks {
		if c.Status == "down" {
			overall = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	httputil.JSON(w, status, HealthStatus{
		Status:  overall,
		Version: healthVersion,
		Uptime:  time.Since(hc.startTime).Round(time.Second).String(),
		Checks:  checks,
	})
}

// checkStore probes the record store with a lookup that is expected to
// miss; any response other than a transport error means the store is up.
func (hc *HealthChecker) checkStore(ctx context.Context) ComponentCheck {
	if hc.store == nil {
		return ComponentCheck{Status: "not_configured"}
	}
	start := time.Now()
	_, err := hc.store.Find(ctx, "rechealthcheck00")
	latency := time.Since(start)
	if err != nil && !errors.Is(err, tablestore.ErrNotFound) {
		return ComponentCheck{Status: "down", Latency: latency.String(), Message: "record store unreachable"}
	}
	return ComponentCheck{Status: "up", Latency: latency.String()}
}

func (hc *HealthChecker) checkRedis(ctx context.Context) ComponentCheck {
	if hc.redisClient == nil {
		return ComponentCheck{Status: "not_configured"}
	}
	start := time.Now()
	if err := hc.redisClient.Ping(ctx).Err(); err != nil {
		return ComponentCheck{Status: "down", Message: fmt.Sprintf("ping failed: %v", err)}
	}
	return ComponentCheck{Status: "up", Latency: time.Since(start).String()}
}
