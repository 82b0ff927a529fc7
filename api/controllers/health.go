package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/jasiri-energy/gasline-backend/api/responses"
	"github.com/jasiri-energy/gasline-backend/pkg/config"
	"github.com/jasiri-energy/gasline-backend/pkg/db"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
	pkgredis "github.com/jasiri-energy/gasline-backend/pkg/redis"
)

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gasline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the dependencies the API cannot serve without. Redis is
// optional, so a missing client is reported but never fails readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gasline-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		checks["database"] = "ok"

		switch {
		case redisP == nil:
			checks["redis"] = "disabled"
		default:
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
				if logg != nil {
					logg.Error(r.Context(), "redis readiness check", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
