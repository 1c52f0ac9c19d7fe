package enums

import "fmt"

// TrialStatus tracks where a profile sits in the trial lifecycle.
type TrialStatus string

const (
	TrialStatusNotStarted TrialStatus = "not_started"
	TrialStatusActive     TrialStatus = "active"
	TrialStatusExpired    TrialStatus = "expired"
	TrialStatusConverted  TrialStatus = "converted"
)

var validTrialStatuses = []TrialStatus{
	TrialStatusNotStarted,
	TrialStatusActive,
	TrialStatusExpired,
	TrialStatusConverted,
}

// String implements fmt.Stringer.
func (s TrialStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s TrialStatus) IsValid() bool {
	for _, candidate := range validTrialStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTrialStatus converts raw input into a TrialStatus.
func ParseTrialStatus(value string) (TrialStatus, error) {
	for _, candidate := range validTrialStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trial status %q", value)
}
