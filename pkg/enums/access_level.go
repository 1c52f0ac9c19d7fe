package enums

import "fmt"

// AccessLevel describes how much of a gated feature a principal may use.
type AccessLevel string

const (
	AccessLevelFull         AccessLevel = "full"
	AccessLevelLimitedCount AccessLevel = "limited_count"
	AccessLevelNone         AccessLevel = "none"
)

var validAccessLevels = []AccessLevel{
	AccessLevelFull,
	AccessLevelLimitedCount,
	AccessLevelNone,
}

// String implements fmt.Stringer.
func (a AccessLevel) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a AccessLevel) IsValid() bool {
	for _, candidate := range validAccessLevels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccessLevel converts raw input into an AccessLevel.
func ParseAccessLevel(value string) (AccessLevel, error) {
	for _, candidate := range validAccessLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access level %q", value)
}
