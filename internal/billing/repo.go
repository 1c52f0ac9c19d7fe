package billing

import (
	"context"

	"gorm.io/gorm"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
)

// Repository handles billing plan persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListPlans(ctx context.Context) ([]models.BillingPlan, error)
	FindDefaultPlan(ctx context.Context) (*models.BillingPlan, error)
	FindPlanByPriceID(ctx context.Context, stripePriceID string) (*models.BillingPlan, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a billing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListPlans(ctx context.Context) ([]models.BillingPlan, error) {
	var plans []models.BillingPlan
	if err := r.db.WithContext(ctx).
		Order("price_amount ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) FindDefaultPlan(ctx context.Context) (*models.BillingPlan, error) {
	var plan models.BillingPlan
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) FindPlanByPriceID(ctx context.Context, stripePriceID string) (*models.BillingPlan, error) {
	var plan models.BillingPlan
	if err := r.db.WithContext(ctx).
		Where("stripe_price_id = ?", stripePriceID).
		First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}
