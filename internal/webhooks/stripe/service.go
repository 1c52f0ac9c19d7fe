package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v84"

	"github.com/osfornecedores/fornecedores-backend/internal/profiles"
	"github.com/osfornecedores/fornecedores-backend/internal/subscriptions"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

type ServiceParams struct {
	Profiles     profiles.Repository
	StripeClient subscriptions.StripeSubscriptionClient
	Logger       *logger.Logger
}

// Service reconciles user profiles with Stripe's view of a customer's
// subscription. Updates are plain overwrites keyed by customer email, so
// redelivered events converge to the same row state.
type Service struct {
	profiles profiles.Repository
	stripe   subscriptions.StripeSubscriptionClient
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles repo required")
	}
	if params.StripeClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		profiles: params.Profiles,
		stripe:   params.StripeClient,
		logg:     params.Logger,
	}, nil
}

// HandleEvent processes Stripe subscription lifecycle and payment events.
// Unrecognized event types are acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID,
		"event_type": string(event.Type),
	})

	switch event.Type {
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated:
		var stripeSub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode subscription event")
		}
		if !subscriptions.IsActiveStatus(stripeSub.Status) {
			// Only active subscriptions unlock profiles; anything else is
			// acknowledged untouched.
			s.logg.Info(ctx, fmt.Sprintf("ignoring subscription in status %s", stripeSub.Status))
			return nil
		}
		return s.reconcile(ctx, &stripeSub)

	case stripe.EventTypeInvoicePaid, stripe.EventTypeInvoicePaymentSucceeded:
		stripeSub, err := s.resolveInvoiceSubscription(ctx, event)
		if err != nil {
			return err
		}
		if stripeSub == nil {
			s.logg.Info(ctx, "invoice paid with no active subscription, skipping")
			return nil
		}
		return s.reconcile(ctx, stripeSub)

	default:
		return nil
	}
}

// resolveInvoiceSubscription finds the subscription an invoice pays for. The
// invoice payload does not carry full subscription state, so when it names a
// subscription that id is fetched; otherwise the customer's current active
// subscription is used. One-off invoices with no active subscription resolve
// to nil.
func (s *Service) resolveInvoiceSubscription(ctx context.Context, event *stripe.Event) (*stripe.Subscription, error) {
	if subID := event.GetObjectValue("subscription"); subID != "" {
		stripeSub, err := s.stripe.GetSubscription(ctx, subID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch invoice subscription")
		}
		if stripeSub == nil || !subscriptions.IsActiveStatus(stripeSub.Status) {
			return nil, nil
		}
		return stripeSub, nil
	}

	customerID := event.GetObjectValue("customer")
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id missing from invoice event")
	}
	stripeSub, err := s.stripe.ActiveSubscriptionForCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve active subscription")
	}
	return stripeSub, nil
}

func (s *Service) reconcile(ctx context.Context, stripeSub *stripe.Subscription) error {
	email, err := s.resolveCustomerEmail(ctx, stripeSub)
	if err != nil {
		return err
	}

	update, err := subscriptions.BuildProfileUpdate(stripeSub, email)
	if err != nil {
		return err
	}

	rows, err := s.profiles.ApplySubscriptionByEmail(ctx, update.CustomerEmail, profiles.SubscriptionUpdate{
		SubscriptionStatus:    update.SubscriptionStatus,
		SubscriptionType:      update.SubscriptionType,
		SubscriptionStartDate: update.SubscriptionStartDate,
		StripeCustomerID:      update.StripeCustomerID,
		TrialStatus:           update.TrialStatus,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile subscription")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no profile matches customer email")
	}

	s.logg.Info(ctx, "profile subscription reconciled")
	return nil
}

// resolveCustomerEmail prefers the email embedded on an expanded customer
// object and falls back to fetching the customer by id.
func (s *Service) resolveCustomerEmail(ctx context.Context, stripeSub *stripe.Subscription) (string, error) {
	if email := subscriptions.CustomerEmailFromSubscription(stripeSub); email != "" {
		return email, nil
	}
	if stripeSub == nil || stripeSub.Customer == nil || stripeSub.Customer.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "subscription has no customer reference")
	}

	cust, err := s.stripe.GetCustomer(ctx, stripeSub.Customer.ID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch stripe customer")
	}
	if cust == nil || cust.Email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "stripe customer has no email")
	}
	return cust.Email, nil
}
