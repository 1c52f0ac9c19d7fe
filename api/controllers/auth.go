package controllers

import (
	"context"
	"net/http"

	"github.com/osfornecedores/fornecedores-backend/api/responses"
	"github.com/osfornecedores/fornecedores-backend/api/validators"
	"github.com/osfornecedores/fornecedores-backend/internal/registration"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// RegistrationService covers the signup and login operations the auth
// endpoints depend on.
type RegistrationService interface {
	Register(ctx context.Context, input registration.RegisterInput) (*registration.AuthResult, error)
	Login(ctx context.Context, input registration.LoginInput) (*registration.AuthResult, error)
}

// AuthRegister creates an account and starts its trial immediately.
func AuthRegister(svc RegistrationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		var input registration.RegisterInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Register(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin exchanges credentials for an access token.
func AuthLogin(svc RegistrationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		var input registration.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
