package access

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
)

// RuleInput carries the editable fields of a feature access rule.
type RuleInput struct {
	FeatureKey                 string `json:"feature_key" validate:"required,min=1,max=120"`
	TrialAccessLevel           string `json:"trial_access_level" validate:"required"`
	TrialLimitValue            int    `json:"trial_limit_value" validate:"gte=0"`
	TrialMessageLocked         string `json:"trial_message_locked" validate:"max=500"`
	NonSubscriberAccessLevel   string `json:"non_subscriber_access_level" validate:"required"`
	NonSubscriberMessageLocked string `json:"non_subscriber_message_locked" validate:"max=500"`
}

func (in RuleInput) toModel() (*models.FeatureAccessRule, error) {
	key := strings.TrimSpace(in.FeatureKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feature_key is required")
	}
	trialLevel, err := enums.ParseAccessLevel(in.TrialAccessLevel)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trial_access_level")
	}
	nonSubLevel, err := enums.ParseAccessLevel(in.NonSubscriberAccessLevel)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid non_subscriber_access_level")
	}
	if trialLevel == enums.AccessLevelLimitedCount && in.TrialLimitValue <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trial_limit_value must be positive for limited_count")
	}
	return &models.FeatureAccessRule{
		FeatureKey:                 key,
		TrialAccessLevel:           trialLevel,
		TrialLimitValue:            in.TrialLimitValue,
		TrialMessageLocked:         strings.TrimSpace(in.TrialMessageLocked),
		NonSubscriberAccessLevel:   nonSubLevel,
		NonSubscriberMessageLocked: strings.TrimSpace(in.NonSubscriberMessageLocked),
	}, nil
}

// ListRules returns every configured rule ordered by feature key.
func (s *Service) ListRules(ctx context.Context) ([]models.FeatureAccessRule, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing rules")
	}
	return rules, nil
}

// GetRule returns a single rule by id.
func (s *Service) GetRule(ctx context.Context, id uuid.UUID) (*models.FeatureAccessRule, error) {
	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading rule")
	}
	if rule == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rule not found")
	}
	return rule, nil
}

// CreateRule stores a new rule. Each feature key holds exactly one rule; a
// duplicate key is reported as a conflict.
func (s *Service) CreateRule(ctx context.Context, input RuleInput) (*models.FeatureAccessRule, error) {
	rule, err := input.toModel()
	if err != nil {
		return nil, err
	}

	existing, err := s.rules.FindByKey(ctx, rule.FeatureKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking existing rule")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a rule already exists for this feature key")
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating rule")
	}
	s.cache.Invalidate(rule.FeatureKey)
	return rule, nil
}

// UpdateRule overwrites an existing rule and drops any cached copy so request
// paths pick up the change immediately.
func (s *Service) UpdateRule(ctx context.Context, id uuid.UUID, input RuleInput) (*models.FeatureAccessRule, error) {
	current, err := s.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := input.toModel()
	if err != nil {
		return nil, err
	}
	if updated.FeatureKey != current.FeatureKey {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feature_key cannot be changed")
	}

	current.TrialAccessLevel = updated.TrialAccessLevel
	current.TrialLimitValue = updated.TrialLimitValue
	current.TrialMessageLocked = updated.TrialMessageLocked
	current.NonSubscriberAccessLevel = updated.NonSubscriberAccessLevel
	current.NonSubscriberMessageLocked = updated.NonSubscriberMessageLocked

	if err := s.rules.Update(ctx, current); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating rule")
	}
	s.cache.Invalidate(current.FeatureKey)
	return current, nil
}

// DeleteRule removes a rule. The feature immediately fails closed for
// everyone until a new rule is configured.
func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	current, err := s.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rules.Delete(ctx, current.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting rule")
	}
	s.cache.Invalidate(current.FeatureKey)
	return nil
}
