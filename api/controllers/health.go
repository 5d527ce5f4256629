package controllers

import (
	"context"
	"net/http"
	"sort"

	"go.uber.org/multierr"

	"github.com/bpmconnect/bpmconnect-backend/api/responses"
	"github.com/bpmconnect/bpmconnect-backend/pkg/config"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
)

// Pinger is the health check surface shared by the API's backends.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BPM-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports the first failures
// together so a single bad backend does not mask the rest.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BPM-Env", cfg.App.Env)

		var combined error
		failing := []string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, name)
			}
		}

		if combined != nil {
			sort.Strings(failing)
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable").
				WithDetails(map[string]any{"failing": failing})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
