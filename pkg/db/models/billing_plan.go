package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

// BillingPlan mirrors a Stripe price offered at checkout.
type BillingPlan struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                 `gorm:"type:text;not null"`
	StripePriceID string                 `gorm:"column:stripe_price_id;not null;uniqueIndex:idx_billing_plans_price"`
	Interval      enums.SubscriptionType `gorm:"column:interval;type:text;not null;default:'monthly'"`
	PriceAmount   decimal.Decimal        `gorm:"column:price_amount;type:numeric(10,2);not null"`
	Currency      string                 `gorm:"type:text;not null;default:'BRL'"`
	IsDefault     bool                   `gorm:"column:is_default;not null;default:false"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
