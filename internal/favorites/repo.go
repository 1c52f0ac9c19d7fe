package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
)

// Repository handles favorite persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListSuppliersByUser(ctx context.Context, userID uuid.UUID) ([]models.Supplier, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Find(ctx context.Context, userID, supplierID uuid.UUID) (*models.Favorite, error)
	Create(ctx context.Context, favorite *models.Favorite) error
	Delete(ctx context.Context, userID, supplierID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a favorites repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListSuppliersByUser(ctx context.Context, userID uuid.UUID) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Joins("JOIN favorites ON favorites.supplier_id = suppliers.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Find(ctx context.Context, userID, supplierID uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND supplier_id = ?", userID, supplierID).
		First(&favorite).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &favorite, nil
}

func (r *repository) Create(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *repository) Delete(ctx context.Context, userID, supplierID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND supplier_id = ?", userID, supplierID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
