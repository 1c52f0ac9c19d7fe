package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/api/validators"
	"github.com/osfornecedores/fornecedores-backend/internal/access"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// RuleAdminService manages feature access rules.
type RuleAdminService interface {
	ListRules(ctx context.Context) ([]models.FeatureAccessRule, error)
	GetRule(ctx context.Context, id uuid.UUID) (*models.FeatureAccessRule, error)
	CreateRule(ctx context.Context, input access.RuleInput) (*models.FeatureAccessRule, error)
	UpdateRule(ctx context.Context, id uuid.UUID, input access.RuleInput) (*models.FeatureAccessRule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

// AdminRulesList returns every configured rule.
func AdminRulesList(svc RuleAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		rules, err := svc.ListRules(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"rules": rules})
	}
}

// AdminRuleDetail returns a single rule by id.
func AdminRuleDetail(svc RuleAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ruleId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rule id"))
			return
		}

		rule, err := svc.GetRule(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

// AdminRuleCreate adds a new feature access rule.
func AdminRuleCreate(svc RuleAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		var input access.RuleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rule, err := svc.CreateRule(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

// AdminRuleUpdate replaces the editable fields of a rule. The feature key
// itself stays immutable.
func AdminRuleUpdate(svc RuleAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ruleId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rule id"))
			return
		}

		var input access.RuleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rule, err := svc.UpdateRule(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

// AdminRuleDelete removes a rule. Reads for that key fail closed afterwards.
func AdminRuleDelete(svc RuleAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ruleId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rule id"))
			return
		}

		if err := svc.DeleteRule(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
