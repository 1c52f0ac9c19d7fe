package subscriptions

import (
	"context"

	pkgstripe "github.com/osfornecedores/fornecedores-backend/pkg/stripe"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/subscription"
)

// StripeSubscriptionClient exposes the subset of Stripe operations the
// webhook reconciler needs.
type StripeSubscriptionClient interface {
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	ActiveSubscriptionForCustomer(ctx context.Context, customerID string) (*stripe.Subscription, error)
	GetCustomer(ctx context.Context, id string) (*stripe.Customer, error)
}

type stripeClientWrapper struct{}

// NewStripeClient wraps the provided Stripe client so the reconciler can be tested.
func NewStripeClient(api *pkgstripe.Client) StripeSubscriptionClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	return subscription.Get(id, params)
}

// ActiveSubscriptionForCustomer returns the customer's most recent active
// subscription, or nil when the customer has none. Invoice events do not carry
// full subscription state, so the reconciler polls here instead.
func (w *stripeClientWrapper) ActiveSubscriptionForCustomer(ctx context.Context, customerID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := subscription.List(params)
	for iter.Next() {
		return iter.Subscription(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (w *stripeClientWrapper) GetCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	return customer.Get(id, params)
}
