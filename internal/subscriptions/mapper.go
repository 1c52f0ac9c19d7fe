package subscriptions

import (
	"strings"
	"time"

	"github.com/stripe/stripe-go/v84"

	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
)

// ProfileUpdate carries the subscription fields the reconciler overwrites on a
// user profile. Every field is derived fresh from Stripe on each delivery, so
// applying the same update twice converges to the same row state.
type ProfileUpdate struct {
	CustomerEmail         string
	StripeCustomerID      string
	SubscriptionStatus    enums.SubscriptionStatus
	SubscriptionType      enums.SubscriptionType
	SubscriptionStartDate *time.Time
	TrialStatus           enums.TrialStatus
}

// IsActiveStatus reports whether a provider status unlocks full access.
// Stripe's "trialing" counts as active: a provider-managed trial is a paid
// subscription from the access engine's point of view.
func IsActiveStatus(status stripe.SubscriptionStatus) bool {
	return status == stripe.SubscriptionStatusActive || status == stripe.SubscriptionStatusTrialing
}

// BuildProfileUpdate maps a resolved Stripe subscription into the overwrite
// applied to the matching profile row.
func BuildProfileUpdate(sub *stripe.Subscription, customerEmail string) (*ProfileUpdate, error) {
	if sub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe subscription is nil")
	}
	email := strings.ToLower(strings.TrimSpace(customerEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if !IsActiveStatus(sub.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription is not active")
	}

	update := &ProfileUpdate{
		CustomerEmail:      email,
		SubscriptionStatus: enums.SubscriptionStatusActive,
		SubscriptionType:   determineSubscriptionType(sub),
		TrialStatus:        enums.TrialStatusConverted,
	}
	if sub.Customer != nil {
		update.StripeCustomerID = sub.Customer.ID
	}
	if start := periodStart(sub); start != 0 {
		t := time.Unix(start, 0).UTC()
		update.SubscriptionStartDate = &t
	}
	return update, nil
}

// determineSubscriptionType inspects the recurring interval of the purchased
// price; anything that is not a yearly interval falls back to monthly.
func determineSubscriptionType(sub *stripe.Subscription) enums.SubscriptionType {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 {
		return enums.SubscriptionTypeMonthly
	}
	price := sub.Items.Data[0].Price
	if price == nil || price.Recurring == nil {
		return enums.SubscriptionTypeMonthly
	}
	if price.Recurring.Interval == stripe.PriceRecurringIntervalYear {
		return enums.SubscriptionTypeYearly
	}
	return enums.SubscriptionTypeMonthly
}

func periodStart(sub *stripe.Subscription) int64 {
	if sub == nil {
		return 0
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].CurrentPeriodStart != 0 {
		return sub.Items.Data[0].CurrentPeriodStart
	}
	return sub.StartDate
}

// CustomerEmailFromSubscription pulls the email embedded on the subscription's
// customer object when Stripe expanded it inline.
func CustomerEmailFromSubscription(sub *stripe.Subscription) string {
	if sub == nil || sub.Customer == nil {
		return ""
	}
	return strings.TrimSpace(sub.Customer.Email)
}
