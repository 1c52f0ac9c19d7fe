package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a user profile to a supplier it pinned.
type Favorite struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_favorites_user_supplier"`
	SupplierID uuid.UUID `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_favorites_user_supplier"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
