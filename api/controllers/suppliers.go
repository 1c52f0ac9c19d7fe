package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/internal/suppliers"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// SupplierService serves the gated supplier directory.
type SupplierService interface {
	List(ctx context.Context, params suppliers.ListParams) (*suppliers.ListResult, error)
	GetBySlug(ctx context.Context, userID *uuid.UUID, slug string) (*models.Supplier, error)
}

// SupplierList returns a directory page shaped by the caller's access level.
func SupplierList(svc SupplierService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		limit := 0
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = value
		}

		result, err := svc.List(ctx, suppliers.ListParams{
			UserID:   identityFromContext(ctx),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			State:    strings.TrimSpace(r.URL.Query().Get("state")),
			Limit:    limit,
			Cursor:   strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SupplierDetail returns a single published supplier when the caller's
// decision allows it.
func SupplierDetail(svc SupplierService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		supplier, err := svc.GetBySlug(ctx, identityFromContext(ctx), slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}
