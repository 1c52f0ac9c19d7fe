package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/pagination"
)

// ListQuery configures supplier list queries.
type ListQuery struct {
	Category string
	State    string
	OnlyIDs  []uuid.UUID
	Limit    int
	Cursor   *pagination.Cursor
}

// Repository handles supplier persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, query ListQuery) ([]models.Supplier, *pagination.Cursor, error)
	PublishedIDs(ctx context.Context) ([]uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindBySlug(ctx context.Context, slug string) (*models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a supplier repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// List returns published suppliers newest first with cursor pagination. When
// OnlyIDs is set the result is restricted to that id set.
func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Supplier, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(query.Limit)

	q := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("is_published = ?", true)

	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.State != "" {
		q = q.Where("state = ?", query.State)
	}
	if query.OnlyIDs != nil {
		if len(query.OnlyIDs) == 0 {
			return nil, nil, nil
		}
		q = q.Where("id IN ?", query.OnlyIDs)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var rows []models.Supplier
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(query.Limit)).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// PublishedIDs returns the id universe limited-count rotation draws from.
func (r *repository) PublishedIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("is_published = ?", true).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *repository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}
