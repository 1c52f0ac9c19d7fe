package profiles

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

// SubscriptionUpdate is the set of profile fields billing reconciliation
// overwrites. Applying it twice for the same event leaves the row unchanged.
type SubscriptionUpdate struct {
	SubscriptionStatus    enums.SubscriptionStatus
	SubscriptionType      enums.SubscriptionType
	SubscriptionStartDate *time.Time
	StripeCustomerID      string
	TrialStatus           enums.TrialStatus
}

// Repository handles user profile persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, profile *models.UserProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	ApplySubscriptionByEmail(ctx context.Context, email string, update SubscriptionUpdate) (int64, error)
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a profile repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).
		Where("lower(email) = ?", normalizeEmail(email)).
		First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// ApplySubscriptionByEmail overwrites the subscription fields of the profile
// matching the customer's email and reports how many rows matched. Zero rows
// means the customer could not be tied to a local profile.
func (r *repository) ApplySubscriptionByEmail(ctx context.Context, email string, update SubscriptionUpdate) (int64, error) {
	values := map[string]any{
		"subscription_status":     update.SubscriptionStatus,
		"subscription_type":       update.SubscriptionType,
		"subscription_start_date": update.SubscriptionStartDate,
		"trial_status":            update.TrialStatus,
		"updated_at":              time.Now().UTC(),
	}
	if update.StripeCustomerID != "" {
		values["stripe_customer_id"] = update.StripeCustomerID
	}

	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("lower(email) = ?", normalizeEmail(email)).
		Updates(values)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ExpireTrials flips active trials whose end date has passed to expired and
// returns how many rows changed. Subscription fields are left untouched.
func (r *repository) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("trial_status = ?", enums.TrialStatusActive).
		Where("trial_end_date IS NOT NULL AND trial_end_date <= ?", now).
		Updates(map[string]any{
			"trial_status": enums.TrialStatusExpired,
			"updated_at":   now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
