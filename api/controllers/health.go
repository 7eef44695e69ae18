package controllers

import (
	"context"
	"net/http"

	"github.com/pigeonhq/pigeon-backend/api/responses"
	"github.com/pigeonhq/pigeon-backend/pkg/config"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
)

type pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pigeon-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness after pinging the wired backends. Nil
// pingers are skipped, so optional backends like Redis do not fail
// readiness when disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pigeon-Env", cfg.App.Env)

		checks := map[string]pinger{
			"db":    db,
			"redis": cache,
		}
		for name, p := range checks {
			if p == nil {
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
