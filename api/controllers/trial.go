package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/api/middleware"
	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/internal/access"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// TrialStatusService reports the trial countdown for a profile.
type TrialStatusService interface {
	TrialStatus(ctx context.Context, userID uuid.UUID) (*access.TrialState, error)
}

// TrialStatus returns the caller's trial countdown and rotation snapshot.
func TrialStatus(svc TrialStatusService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		state, err := svc.TrialStatus(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}
