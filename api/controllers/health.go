package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/pkg/config"
	"github.com/osfornecedores/fornecedores-backend/pkg/db"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
	"github.com/osfornecedores/fornecedores-backend/pkg/redis"
)

const envHeader = "X-Fornecedores-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set(envHeader, cfg.App.Env)

		var err error
		err = multierr.Append(err, ping(ctx, "database", dbP))
		err = multierr.Append(err, ping(ctx, "redis", redisP))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func ping(ctx context.Context, name string, p pinger) error {
	if p == nil {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
	}
	return nil
}
