package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

// UserProfile is the canonical identity plus subscription/trial record.
// Subscription fields are overwritten wholesale by webhook reconciliation.
type UserProfile struct {
	ID                    uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email                 string                   `gorm:"type:text;not null;uniqueIndex:idx_user_profiles_email"`
	PasswordHash          string                   `gorm:"column:password_hash;not null"`
	FullName              string                   `gorm:"column:full_name;not null"`
	Role                  enums.UserRole           `gorm:"column:role;type:text;not null;default:'user'"`
	SubscriptionStatus    enums.SubscriptionStatus `gorm:"column:subscription_status;type:text;not null;default:'inactive'"`
	SubscriptionType      *enums.SubscriptionType  `gorm:"column:subscription_type;type:text"`
	SubscriptionStartDate *time.Time               `gorm:"column:subscription_start_date"`
	StripeCustomerID      *string                  `gorm:"column:stripe_customer_id"`
	TrialStatus           enums.TrialStatus        `gorm:"column:trial_status;type:text;not null;default:'not_started'"`
	TrialStartDate        *time.Time               `gorm:"column:trial_start_date"`
	TrialEndDate          *time.Time               `gorm:"column:trial_end_date"`
	CreatedAt             time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// HasActiveSubscription reports whether the profile is fully unlocked.
func (p *UserProfile) HasActiveSubscription() bool {
	return p != nil && p.SubscriptionStatus == enums.SubscriptionStatusActive
}
