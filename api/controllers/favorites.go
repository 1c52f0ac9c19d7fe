package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/api/middleware"
	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/api/validators"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// FavoritesService manages a user's saved suppliers.
type FavoritesService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Supplier, error)
	Add(ctx context.Context, userID, supplierID uuid.UUID) (*models.Favorite, error)
	Remove(ctx context.Context, userID, supplierID uuid.UUID) error
}

type addFavoritePayload struct {
	SupplierID string `json:"supplier_id" validate:"required,uuid"`
}

// FavoritesList returns the caller's saved suppliers.
func FavoritesList(svc FavoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := requireUser(ctx, logg, w, svc != nil)
		if !ok {
			return
		}

		items, err := svc.List(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"suppliers": items})
	}
}

// FavoritesAdd saves a supplier for the caller, subject to the trial cap.
func FavoritesAdd(svc FavoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := requireUser(ctx, logg, w, svc != nil)
		if !ok {
			return
		}

		var payload addFavoritePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		supplierID, err := uuid.Parse(payload.SupplierID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		favorite, err := svc.Add(ctx, userID, supplierID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, favorite)
	}
}

// FavoritesRemove deletes a saved supplier. Removal stays open to lapsed
// trials so users can clean up.
func FavoritesRemove(svc FavoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := requireUser(ctx, logg, w, svc != nil)
		if !ok {
			return
		}

		supplierID, err := uuid.Parse(chi.URLParam(r, "supplierId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		if err := svc.Remove(ctx, userID, supplierID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

func requireUser(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, serviceReady bool) (uuid.UUID, bool) {
	if !serviceReady {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return uuid.Nil, false
	}
	return userID, true
}
