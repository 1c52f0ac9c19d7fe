package trial

import (
	"time"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

// Window is how often the limited-access supplier selection rotates.
const Window = 24 * time.Hour

// Remaining reports the whole days and hours left before trialEnd, clamped at
// zero. Hours are the remainder after subtracting whole days, so a trial with
// 36h left reports 1 day and 12 hours.
func Remaining(now, trialEnd time.Time) (days, hours int) {
	left := trialEnd.Sub(now)
	if left <= 0 {
		return 0, 0
	}
	days = int(left / (24 * time.Hour))
	hours = int((left % (24 * time.Hour)) / time.Hour)
	return days, hours
}

// HasExpired reports whether the profile's trial window has passed. Profiles
// without a trial end date never expire by clock.
func HasExpired(p *models.UserProfile, now time.Time) bool {
	if p == nil || p.TrialEndDate == nil {
		return false
	}
	return !now.Before(*p.TrialEndDate)
}

// IsInTrial reports whether the profile is in a live trial at the given
// instant. The stored status must say active AND the clock must agree; a stale
// active row past its end date does not count.
func IsInTrial(p *models.UserProfile, now time.Time) bool {
	if p == nil || p.TrialStatus != enums.TrialStatusActive {
		return false
	}
	return !HasExpired(p, now)
}

// WindowIndex returns how many full rotation windows have elapsed since the
// trial started. Instants before the start clamp to window zero.
func WindowIndex(trialStart, now time.Time) int64 {
	elapsed := now.Sub(trialStart)
	if elapsed < 0 {
		return 0
	}
	return int64(elapsed / Window)
}
