package enums

import "fmt"

// SubscriptionType is the purchased billing cadence.
type SubscriptionType string

const (
	SubscriptionTypeMonthly SubscriptionType = "monthly"
	SubscriptionTypeYearly  SubscriptionType = "yearly"
)

var validSubscriptionTypes = []SubscriptionType{
	SubscriptionTypeMonthly,
	SubscriptionTypeYearly,
}

// String implements fmt.Stringer.
func (s SubscriptionType) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SubscriptionType) IsValid() bool {
	for _, candidate := range validSubscriptionTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubscriptionType converts raw input into a SubscriptionType.
func ParseSubscriptionType(value string) (SubscriptionType, error) {
	for _, candidate := range validSubscriptionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription type %q", value)
}
