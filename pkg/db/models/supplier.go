package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a directory entry users browse and favorite.
type Supplier struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Slug        string    `gorm:"type:text;not null;uniqueIndex:idx_suppliers_slug"`
	Category    string    `gorm:"type:text;not null;index"`
	City        string    `gorm:"type:text;not null;default:''"`
	State       string    `gorm:"type:text;not null;default:''"`
	Description string    `gorm:"type:text;not null;default:''"`
	IsPublished bool      `gorm:"column:is_published;not null;default:false;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
