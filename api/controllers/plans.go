package controllers

import (
	"context"
	"net/http"

	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// BillingPlansService lists the subscription plans shown on the pricing page.
type BillingPlansService interface {
	ListPlans(ctx context.Context) ([]models.BillingPlan, error)
}

// BillingPlans returns the public plan catalog.
func BillingPlans(svc BillingPlansService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		plans, err := svc.ListPlans(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"plans": plans})
	}
}
