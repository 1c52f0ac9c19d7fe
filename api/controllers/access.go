package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/api/middleware"
	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/internal/access"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// AccessDecider answers feature gating questions for the current principal.
type AccessDecider interface {
	CheckFeatureAccess(ctx context.Context, userID *uuid.UUID, featureKey string) access.Decision
}

// FeatureAccess evaluates the gate for a feature key. The endpoint accepts
// anonymous callers; a valid bearer token upgrades the decision to the
// caller's subscription or trial state.
func FeatureAccess(svc AccessDecider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		featureKey := strings.TrimSpace(chi.URLParam(r, "featureKey"))
		if featureKey == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "feature key is required"))
			return
		}

		decision := svc.CheckFeatureAccess(ctx, identityFromContext(ctx), featureKey)
		responses.WriteSuccess(w, decision)
	}
}

// identityFromContext resolves the optional authenticated user. A malformed
// id in the context is treated as anonymous rather than failing the request.
func identityFromContext(ctx context.Context) *uuid.UUID {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
