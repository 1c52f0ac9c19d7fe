package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

// FeatureAccessRule configures gating for a single feature key. Exactly one
// rule exists per key; admins edit them, request paths only read them.
type FeatureAccessRule struct {
	ID                         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FeatureKey                 string            `gorm:"column:feature_key;type:text;not null;uniqueIndex:idx_feature_access_rules_key"`
	TrialAccessLevel           enums.AccessLevel `gorm:"column:trial_access_level;type:text;not null;default:'none'"`
	TrialLimitValue            int               `gorm:"column:trial_limit_value;not null;default:0"`
	TrialMessageLocked         string            `gorm:"column:trial_message_locked;type:text;not null;default:''"`
	NonSubscriberAccessLevel   enums.AccessLevel `gorm:"column:non_subscriber_access_level;type:text;not null;default:'none'"`
	NonSubscriberMessageLocked string            `gorm:"column:non_subscriber_message_locked;type:text;not null;default:''"`
	CreatedAt                  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
