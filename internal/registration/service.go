package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/internal/profiles"
	"github.com/osfornecedores/fornecedores-backend/pkg/auth"
	"github.com/osfornecedores/fornecedores-backend/pkg/config"
	"github.com/osfornecedores/fornecedores-backend/pkg/db"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/security"
)

// RegisterInput is the signup payload.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,min=2,max=160"`
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries the minted token plus the profile it belongs to.
type AuthResult struct {
	Token   string              `json:"token"`
	Profile *models.UserProfile `json:"profile"`
}

// ServiceParams groups dependencies for the registration service.
type ServiceParams struct {
	Profiles profiles.Repository
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Trial    config.TrialConfig
	Now      func() time.Time
}

// Service registers accounts and authenticates credentials. New accounts
// start their trial immediately.
type Service struct {
	profiles profiles.Repository
	jwt      config.JWTConfig
	password config.PasswordConfig
	trial    config.TrialConfig
	now      func() time.Time
}

// NewService builds a registration service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Profiles == nil {
		return nil, errors.New("profiles repository is required")
	}
	if params.JWT.Secret == "" {
		return nil, errors.New("jwt config is required")
	}
	if params.Trial.Duration <= 0 {
		return nil, errors.New("trial duration must be positive")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		profiles: params.Profiles,
		jwt:      params.JWT,
		password: params.Password,
		trial:    params.Trial,
		now:      params.Now,
	}, nil
}

// Register creates a profile with an immediately-started trial and returns a
// signed access token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	existing, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking existing profile")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account already exists for this email")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	now := s.now()
	trialEnd := now.Add(s.trial.Duration)
	profile := &models.UserProfile{
		ID:                 uuid.New(),
		Email:              email,
		PasswordHash:       hash,
		FullName:           strings.TrimSpace(input.FullName),
		Role:               enums.UserRoleUser,
		SubscriptionStatus: enums.SubscriptionStatusInactive,
		TrialStatus:        enums.TrialStatusActive,
		TrialStartDate:     &now,
		TrialEndDate:       &trialEnd,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if db.IsUniqueViolation(err, "idx_user_profiles_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account already exists for this email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating profile")
	}

	return s.issueToken(profile)
}

// Login verifies credentials and returns a signed access token. Bad email and
// bad password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading profile")
	}
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, profile.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueToken(profile)
}

func (s *Service) issueToken(profile *models.UserProfile) (*AuthResult, error) {
	token, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   profile.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	// Never hand the hash back to the transport layer.
	sanitized := *profile
	sanitized.PasswordHash = ""
	return &AuthResult{Token: token, Profile: &sanitized}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
