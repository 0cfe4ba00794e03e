package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheck pings one dependency.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy is true when every registered dependency answered its last ping.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Services {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth = HealthStatus{Services: map[string]bool{}}
	healthMu      sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// RunHealthChecks pings every dependency once and stores the snapshot.
func RunHealthChecks(ctx context.Context, checks []HealthCheck) HealthStatus {
	status := HealthStatus{Services: make(map[string]bool, len(checks)), CheckedAt: time.Now()}
	for _, check := range checks {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check.Ping(pingCtx)
		cancel()
		if err != nil {
			GetLogger().Warn("Health check failed", zap.String("service", check.Name), zap.Error(err))
		}
		status.Services[check.Name] = err == nil
	}

	healthMu.Lock()
	currentHealth = status
	healthMu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, checks []HealthCheck) {
	RunHealthChecks(ctx, checks)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunHealthChecks(ctx, checks)
			}
		}
	}()
}
