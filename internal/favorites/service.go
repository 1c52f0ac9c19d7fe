package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/internal/access"
	"github.com/osfornecedores/fornecedores-backend/internal/suppliers"
	"github.com/osfornecedores/fornecedores-backend/pkg/db"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
)

// Decider answers feature gating questions for a principal.
type Decider interface {
	CheckFeatureAccess(ctx context.Context, userID *uuid.UUID, featureKey string) access.Decision
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo      Repository
	Suppliers suppliers.Repository
	Access    Decider
}

// Service manages a user's saved suppliers under the favorites gate. A
// limited-count decision caps how many favorites the user may hold at once.
type Service struct {
	repo      Repository
	suppliers suppliers.Repository
	access    Decider
}

// NewService builds a favorites service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Suppliers == nil {
		return nil, errors.New("suppliers repo is required")
	}
	if params.Access == nil {
		return nil, errors.New("access decider is required")
	}
	return &Service{
		repo:      params.Repo,
		suppliers: params.Suppliers,
		access:    params.Access,
	}, nil
}

// List returns the user's favorited suppliers.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Supplier, error) {
	decision := s.access.CheckFeatureAccess(ctx, &userID, access.FeatureFavorites)
	if decision.Access == enums.AccessLevelNone {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, decision.Message)
	}

	rows, err := s.repo.ListSuppliersByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing favorites")
	}
	return rows, nil
}

// Add favorites a supplier for the user. Under limited_count the decision's
// limit caps the total number of saved favorites.
func (s *Service) Add(ctx context.Context, userID, supplierID uuid.UUID) (*models.Favorite, error) {
	decision := s.access.CheckFeatureAccess(ctx, &userID, access.FeatureFavorites)
	if decision.Access == enums.AccessLevelNone {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, decision.Message)
	}

	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading supplier")
	}
	if supplier == nil || !supplier.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}

	existing, err := s.repo.Find(ctx, userID, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking existing favorite")
	}
	if existing != nil {
		return existing, nil
	}

	if decision.Access == enums.AccessLevelLimitedCount && decision.Limit > 0 {
		count, err := s.repo.CountByUser(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting favorites")
		}
		if count >= int64(decision.Limit) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, decision.Message)
		}
	}

	favorite := &models.Favorite{
		ID:         uuid.New(),
		UserID:     userID,
		SupplierID: supplierID,
	}
	if err := s.repo.Create(ctx, favorite); err != nil {
		if db.IsUniqueViolation(err, "idx_favorites_user_supplier") {
			// Concurrent double-tap; the pair already exists.
			return s.repo.Find(ctx, userID, supplierID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating favorite")
	}
	return favorite, nil
}

// Remove unfavorites a supplier. Removing is always allowed for authenticated
// users so lapsed trials can clean up their list.
func (s *Service) Remove(ctx context.Context, userID, supplierID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, userID, supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing favorite")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return nil
}
