package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/responses"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/redis"
)

const readyProbeTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DiscreetKit-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DiscreetKit-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = probe(ctx, dbP.Ping)
		if checks["database"] != "ok" {
			healthy = false
		}
		checks["redis"] = probe(ctx, redisP.Ping)
		if checks["redis"] != "ok" {
			healthy = false
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks)
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

func probe(ctx context.Context, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
