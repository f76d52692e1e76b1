package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/daybreak101/ambassador/api/responses"
	"github.com/daybreak101/ambassador/pkg/config"
	"github.com/daybreak101/ambassador/pkg/logger"
	"github.com/daybreak101/ambassador/pkg/types"
)

const (
	envHeader          = "X-Ambassador-Env"
	readyCheckTimeout  = 2 * time.Second
	healthStatusOK     = "ok"
	healthStatusFailed = "unavailable"
)

// ReadinessCheck is one dependency probed by HealthReady.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteOK(w, types.HealthStatus{Status: "live"})
	}
}

// HealthReady answers 503 when any check fails.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		status := types.HealthStatus{Status: "ready", Checks: make(map[string]string, len(checks))}
		code := http.StatusOK
		for _, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				status.Status = "not_ready"
				status.Checks[check.Name] = healthStatusFailed
				code = http.StatusServiceUnavailable
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "check", check.Name), "readiness check failed", err)
				}
				continue
			}
			status.Checks[check.Name] = healthStatusOK
		}
		responses.WriteJSON(w, code, status)
	}
}
