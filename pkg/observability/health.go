package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the result of a single check.
type HealthCheckResult struct {
	Status   HealthStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
	Duration string       `json:"duration"`
}

// HealthChecker performs one check.
type HealthChecker func(ctx context.Context) HealthCheckResult

// OverallHealth aggregates every registered check.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// HealthRegistry runs named health checks concurrently.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	timeout  time.Duration
}

// NewHealthRegistry creates a registry whose checks share timeout.
// A non-positive timeout defaults to five seconds.
func NewHealthRegistry(timeout time.Duration) *HealthRegistry {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthRegistry{
		checkers: make(map[string]HealthChecker),
		timeout:  timeout,
	}
}

// Register adds or replaces the checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Names returns the registered component names in sorted order.
func (r *HealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs all checks and aggregates them. One unhealthy component makes
// the whole report unhealthy; a degraded one only degrades it.
func (r *HealthRegistry) Check(ctx context.Context) OverallHealth {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			start := time.Now()
			result := checker(ctx)
			result.Duration = time.Since(start).String()
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	overall := HealthStatusHealthy
	for _, result := range results {
		switch result.Status {
		case HealthStatusUnhealthy:
			overall = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if overall == HealthStatusHealthy {
				overall = HealthStatusDegraded
			}
		}
	}

	return OverallHealth{Status: overall, Timestamp: time.Now().UTC(), Checks: results}
}

// Handler serves the aggregated report as JSON. Unhealthy reports answer
// 503 so load balancers drop the instance.
func (r *HealthRegistry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		report := r.Check(req.Context())
		w.Header().Set("Content-Type", "application/json")
		if report.Status == HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	})
}

// PingChecker turns a ping function into a checker. Failures of a critical
// dependency are unhealthy; failures of an optional one are degraded.
func PingChecker(component string, critical bool, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			status := HealthStatusDegraded
			if critical {
				status = HealthStatusUnhealthy
			}
			return HealthCheckResult{Status: status, Message: component + ": " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy}
	}
}
