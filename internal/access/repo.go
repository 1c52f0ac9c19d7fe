package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
)

// Repository handles feature access rule persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByKey(ctx context.Context, featureKey string) (*models.FeatureAccessRule, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FeatureAccessRule, error)
	List(ctx context.Context) ([]models.FeatureAccessRule, error)
	Create(ctx context.Context, rule *models.FeatureAccessRule) error
	Update(ctx context.Context, rule *models.FeatureAccessRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a rule repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByKey(ctx context.Context, featureKey string) (*models.FeatureAccessRule, error) {
	var rule models.FeatureAccessRule
	if err := r.db.WithContext(ctx).
		Where("feature_key = ?", featureKey).
		First(&rule).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FeatureAccessRule, error) {
	var rule models.FeatureAccessRule
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rule).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) List(ctx context.Context) ([]models.FeatureAccessRule, error) {
	var rules []models.FeatureAccessRule
	if err := r.db.WithContext(ctx).
		Order("feature_key ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) Create(ctx context.Context, rule *models.FeatureAccessRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) Update(ctx context.Context, rule *models.FeatureAccessRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.FeatureAccessRule{}).Error
}
