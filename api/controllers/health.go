package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/castcall-backend/api/responses"
	"github.com/angelmondragon/castcall-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is any dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a Pinger for the readiness report.
type Dependency struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Castcall-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency and fails with all of their errors combined.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Castcall-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		var errs error
		for _, dep := range deps {
			if dep.Pinger == nil {
				continue
			}
			if err := dep.Pinger.Ping(ctx); err != nil {
				checks[dep.Name] = "down"
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", dep.Name, err))
				continue
			}
			checks[dep.Name] = "ok"
		}

		if errs != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable").
				WithDetails(map[string]any{"checks": checks})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
