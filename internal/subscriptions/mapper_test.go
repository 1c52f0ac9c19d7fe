package subscriptions

import (
	"testing"
	"time"

	"github.com/stripe/stripe-go/v84"

	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

func subWithInterval(interval stripe.PriceRecurringInterval) *stripe.Subscription {
	return &stripe.Subscription{
		ID:       "sub_test",
		Status:   stripe.SubscriptionStatusActive,
		Customer: &stripe.Customer{ID: "cus_test"},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{{
				CurrentPeriodStart: 1767225600,
				Price: &stripe.Price{
					Recurring: &stripe.PriceRecurring{Interval: interval},
				},
			}},
		},
	}
}

func TestBuildProfileUpdateMonthly(t *testing.T) {
	update, err := BuildProfileUpdate(subWithInterval(stripe.PriceRecurringIntervalMonth), "Maria@Example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.CustomerEmail != "maria@example.com" {
		t.Fatalf("expected normalized email, got %q", update.CustomerEmail)
	}
	if update.SubscriptionStatus != enums.SubscriptionStatusActive {
		t.Fatalf("expected active, got %s", update.SubscriptionStatus)
	}
	if update.SubscriptionType != enums.SubscriptionTypeMonthly {
		t.Fatalf("expected monthly, got %s", update.SubscriptionType)
	}
	if update.TrialStatus != enums.TrialStatusConverted {
		t.Fatalf("expected converted, got %s", update.TrialStatus)
	}
	want := time.Unix(1767225600, 0).UTC()
	if update.SubscriptionStartDate == nil || !update.SubscriptionStartDate.Equal(want) {
		t.Fatalf("expected start %s, got %v", want, update.SubscriptionStartDate)
	}
	if update.StripeCustomerID != "cus_test" {
		t.Fatalf("expected customer id, got %q", update.StripeCustomerID)
	}
}

func TestBuildProfileUpdateYearly(t *testing.T) {
	update, err := BuildProfileUpdate(subWithInterval(stripe.PriceRecurringIntervalYear), "a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.SubscriptionType != enums.SubscriptionTypeYearly {
		t.Fatalf("expected yearly, got %s", update.SubscriptionType)
	}
}

func TestBuildProfileUpdateDefaultsToMonthly(t *testing.T) {
	sub := subWithInterval(stripe.PriceRecurringIntervalMonth)
	sub.Items = nil
	sub.StartDate = 1767225600

	update, err := BuildProfileUpdate(sub, "a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.SubscriptionType != enums.SubscriptionTypeMonthly {
		t.Fatalf("undetermined interval must default to monthly, got %s", update.SubscriptionType)
	}
	if update.SubscriptionStartDate == nil {
		t.Fatal("expected fallback to subscription start date")
	}
}

func TestBuildProfileUpdateRejectsBadInputs(t *testing.T) {
	if _, err := BuildProfileUpdate(nil, "a@b.com"); err == nil {
		t.Fatal("expected error for nil subscription")
	}
	if _, err := BuildProfileUpdate(subWithInterval(stripe.PriceRecurringIntervalMonth), "  "); err == nil {
		t.Fatal("expected error for empty email")
	}
	canceled := subWithInterval(stripe.PriceRecurringIntervalMonth)
	canceled.Status = stripe.SubscriptionStatusCanceled
	if _, err := BuildProfileUpdate(canceled, "a@b.com"); err == nil {
		t.Fatal("expected error for non-active status")
	}
}

func TestIsActiveStatusCoversTrialing(t *testing.T) {
	if !IsActiveStatus(stripe.SubscriptionStatusActive) {
		t.Fatal("active must count")
	}
	if !IsActiveStatus(stripe.SubscriptionStatusTrialing) {
		t.Fatal("provider trialing must count as active")
	}
	if IsActiveStatus(stripe.SubscriptionStatusPastDue) {
		t.Fatal("past_due must not count")
	}
}
