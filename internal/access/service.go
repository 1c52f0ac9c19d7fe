package access

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/internal/profiles"
	"github.com/osfornecedores/fornecedores-backend/internal/trial"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// UnavailableMessage is returned when gating cannot be resolved and the
// request falls back to locked.
const UnavailableMessage = "Este recurso não está disponível no momento."

const defaultLookupTimeout = 3 * time.Second

// Decision is the per-request answer of the gate. It is computed fresh on
// every call and never persisted.
type Decision struct {
	Access             enums.AccessLevel `json:"access"`
	Limit              int               `json:"limit,omitempty"`
	Message            string            `json:"message,omitempty"`
	AllowedSupplierIDs []uuid.UUID       `json:"allowed_supplier_ids,omitempty"`
}

// IsSupplierAllowed reports whether the given supplier is visible under this
// decision. Full access allows everything; none allows nothing.
func (d Decision) IsSupplierAllowed(id uuid.UUID) bool {
	switch d.Access {
	case enums.AccessLevelFull:
		return true
	case enums.AccessLevelLimitedCount:
		for _, allowed := range d.AllowedSupplierIDs {
			if allowed == id {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// SupplierPool provides the id universe a limited-count decision rotates over.
type SupplierPool interface {
	PublishedIDs(ctx context.Context) ([]uuid.UUID, error)
}

// TrialState is the countdown payload shown to trial users. The allowed ids
// snapshot mirrors what a limited-count decision for the supplier directory
// would return in the current rotation window.
type TrialState struct {
	Status             enums.TrialStatus `json:"status"`
	IsInTrial          bool              `json:"is_in_trial"`
	HasExpired         bool              `json:"has_expired"`
	DaysRemaining      int               `json:"days_remaining"`
	HoursRemaining     int               `json:"hours_remaining"`
	TrialStartDate     *time.Time        `json:"trial_start_date,omitempty"`
	TrialEndDate       *time.Time        `json:"trial_end_date,omitempty"`
	AllowedSupplierIDs []uuid.UUID       `json:"allowed_supplier_ids,omitempty"`
}

// ServiceParams groups dependencies for the access service.
type ServiceParams struct {
	Rules         Repository
	Profiles      profiles.Repository
	Suppliers     SupplierPool
	Cache         *RuleCache
	Logger        *logger.Logger
	LookupTimeout time.Duration
	Now           func() time.Time
}

// Service decides what a principal may see for a given feature key. Every
// failure path collapses to a locked decision; callers never receive an error
// from CheckFeatureAccess.
type Service struct {
	rules         Repository
	profiles      profiles.Repository
	suppliers     SupplierPool
	cache         *RuleCache
	logg          *logger.Logger
	lookupTimeout time.Duration
	now           func() time.Time
}

// NewService builds the access decision service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Rules == nil {
		return nil, errors.New("rules repository is required")
	}
	if params.Profiles == nil {
		return nil, errors.New("profiles repository is required")
	}
	if params.Suppliers == nil {
		return nil, errors.New("supplier pool is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.LookupTimeout <= 0 {
		params.LookupTimeout = defaultLookupTimeout
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		rules:         params.Rules,
		profiles:      params.Profiles,
		suppliers:     params.Suppliers,
		cache:         params.Cache,
		logg:          params.Logger,
		lookupTimeout: params.LookupTimeout,
		now:           params.Now,
	}, nil
}

// Close releases the service's cache resources.
func (s *Service) Close() {
	s.cache.Close()
}

// CheckFeatureAccess answers whether the principal may use the feature.
// userID is nil for anonymous visitors. An active subscription always wins; a
// live trial applies the trial rule; everything else, including a trial whose
// end date has passed but whose row has not been swept yet, applies the
// non-subscriber rule. Lookup failures lock the feature rather than erroring.
func (s *Service) CheckFeatureAccess(ctx context.Context, userID *uuid.UUID, featureKey string) Decision {
	ctx = s.logg.WithFeatureKey(ctx, featureKey)

	rule, err := s.loadRule(ctx, featureKey)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "rule lookup failed, locking feature")
		return lockedDecision()
	}
	if rule == nil {
		s.logg.Warn(ctx, "no rule configured for feature, locking")
		return lockedDecision()
	}

	if userID == nil {
		return s.applyNonSubscriberRule(ctx, rule, 0)
	}

	profile, err := s.loadProfile(ctx, *userID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "profile lookup failed, locking feature")
		return lockedDecision()
	}
	if profile == nil {
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "profile not found for authenticated user, locking feature")
		return lockedDecision()
	}

	now := s.now()

	if profile.HasActiveSubscription() {
		return Decision{Access: enums.AccessLevelFull}
	}

	if trial.IsInTrial(profile, now) {
		windowIndex := int64(0)
		if profile.TrialStartDate != nil {
			windowIndex = trial.WindowIndex(*profile.TrialStartDate, now)
		}
		return s.applyRule(ctx, rule.TrialAccessLevel, rule.TrialLimitValue, rule.TrialMessageLocked, windowIndex)
	}

	// Expired-but-unswept trials intentionally fall through here without
	// touching the stored trial_status; the sweeper owns that transition.
	return s.applyNonSubscriberRule(ctx, rule, 0)
}

func (s *Service) applyNonSubscriberRule(ctx context.Context, rule *models.FeatureAccessRule, windowIndex int64) Decision {
	return s.applyRule(ctx, rule.NonSubscriberAccessLevel, rule.TrialLimitValue, rule.NonSubscriberMessageLocked, windowIndex)
}

func (s *Service) applyRule(ctx context.Context, level enums.AccessLevel, limit int, lockedMessage string, windowIndex int64) Decision {
	switch level {
	case enums.AccessLevelFull:
		return Decision{Access: enums.AccessLevelFull}
	case enums.AccessLevelLimitedCount:
		allowed, err := s.rotatedPool(ctx, windowIndex, limit)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "supplier pool lookup failed, locking feature")
			return lockedDecision()
		}
		return Decision{
			Access:             enums.AccessLevelLimitedCount,
			Limit:              limit,
			Message:            messageOrDefault(lockedMessage),
			AllowedSupplierIDs: allowed,
		}
	default:
		return Decision{
			Access:  enums.AccessLevelNone,
			Message: messageOrDefault(lockedMessage),
		}
	}
}

func (s *Service) rotatedPool(ctx context.Context, windowIndex int64, limit int) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	pool, err := s.suppliers.PublishedIDs(ctx)
	if err != nil {
		return nil, err
	}
	return trial.Rotate(pool, windowIndex, limit), nil
}

func (s *Service) loadRule(ctx context.Context, featureKey string) (*models.FeatureAccessRule, error) {
	if cached, ok := s.cache.Get(featureKey); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	rule, err := s.rules.FindByKey(ctx, featureKey)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		s.cache.Set(*rule)
	}
	return rule, nil
}

func (s *Service) loadProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	return s.profiles.FindByID(ctx, userID)
}

// TrialStatus reports the countdown for the authenticated user.
func (s *Service) TrialStatus(ctx context.Context, userID uuid.UUID) (*TrialState, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading profile")
	}
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}

	now := s.now()
	state := &TrialState{
		Status:         profile.TrialStatus,
		IsInTrial:      trial.IsInTrial(profile, now),
		HasExpired:     trial.HasExpired(profile, now),
		TrialStartDate: profile.TrialStartDate,
		TrialEndDate:   profile.TrialEndDate,
	}
	if state.IsInTrial && profile.TrialEndDate != nil {
		state.DaysRemaining, state.HoursRemaining = trial.Remaining(now, *profile.TrialEndDate)
	}
	if state.IsInTrial {
		decision := s.CheckFeatureAccess(ctx, &userID, FeatureSuppliers)
		if decision.Access == enums.AccessLevelLimitedCount {
			state.AllowedSupplierIDs = decision.AllowedSupplierIDs
		}
	}
	return state, nil
}

func lockedDecision() Decision {
	return Decision{
		Access:  enums.AccessLevelNone,
		Message: UnavailableMessage,
	}
}

func messageOrDefault(message string) string {
	if message == "" {
		return UnavailableMessage
	}
	return message
}
