package suppliers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/internal/access"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/pagination"
)

// Decider answers feature gating questions for a principal.
type Decider interface {
	CheckFeatureAccess(ctx context.Context, userID *uuid.UUID, featureKey string) access.Decision
}

// ListParams configures a gated directory listing.
type ListParams struct {
	UserID   *uuid.UUID
	Category string
	State    string
	Limit    int
	Cursor   string
}

// ListResult is the directory page plus the decision that shaped it, so the
// UI can render countdowns and locked messages without a second call.
type ListResult struct {
	Suppliers  []models.Supplier `json:"suppliers"`
	NextCursor string            `json:"next_cursor,omitempty"`
	Decision   access.Decision   `json:"decision"`
}

// ServiceParams groups dependencies for the supplier service.
type ServiceParams struct {
	Repo   Repository
	Access Decider
}

// Service serves the supplier directory with gating applied.
type Service struct {
	repo   Repository
	access Decider
}

// NewService builds a supplier service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Access == nil {
		return nil, errors.New("access decider is required")
	}
	return &Service{repo: params.Repo, access: params.Access}, nil
}

// List returns the directory page the caller is allowed to see. A locked
// decision yields an empty page with the message attached rather than an
// error, so anonymous visitors still get a well-formed response.
func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	decision := s.access.CheckFeatureAccess(ctx, params.UserID, access.FeatureSuppliers)

	result := &ListResult{Decision: decision, Suppliers: []models.Supplier{}}
	if decision.Access == enums.AccessLevelNone {
		return result, nil
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := ListQuery{
		Category: params.Category,
		State:    params.State,
		Limit:    params.Limit,
		Cursor:   cursor,
	}
	if decision.Access == enums.AccessLevelLimitedCount {
		query.OnlyIDs = decision.AllowedSupplierIDs
		if query.OnlyIDs == nil {
			query.OnlyIDs = []uuid.UUID{}
		}
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing suppliers")
	}
	if rows != nil {
		result.Suppliers = rows
	}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

// GetBySlug returns a single supplier when the caller's decision covers it.
func (s *Service) GetBySlug(ctx context.Context, userID *uuid.UUID, slug string) (*models.Supplier, error) {
	decision := s.access.CheckFeatureAccess(ctx, userID, access.FeatureSuppliers)
	if decision.Access == enums.AccessLevelNone {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, decision.Message)
	}

	supplier, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading supplier")
	}
	if supplier == nil || !supplier.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	if !decision.IsSupplierAllowed(supplier.ID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, decision.Message)
	}
	return supplier, nil
}
