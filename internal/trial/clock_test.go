package trial

import (
	"testing"
	"time"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

func TestRemainingSplitsDaysAndHours(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		end       time.Time
		wantDays  int
		wantHours int
	}{
		{"full week", now.Add(7 * 24 * time.Hour), 7, 0},
		{"day and a half", now.Add(36 * time.Hour), 1, 12},
		{"under a day", now.Add(5 * time.Hour), 0, 5},
		{"sub-hour remainder truncates", now.Add(90 * time.Minute), 0, 1},
		{"exactly now", now, 0, 0},
		{"already past", now.Add(-48 * time.Hour), 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, hours := Remaining(now, tc.end)
			if days != tc.wantDays || hours != tc.wantHours {
				t.Fatalf("Remaining = (%d, %d), want (%d, %d)", days, hours, tc.wantDays, tc.wantHours)
			}
		})
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	now := time.Now().UTC()
	days, hours := Remaining(now, now.Add(-time.Minute))
	if days != 0 || hours != 0 {
		t.Fatalf("expected clamp to zero, got (%d, %d)", days, hours)
	}
}

func TestHasExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if HasExpired(nil, now) {
		t.Fatal("nil profile should not expire")
	}
	if HasExpired(&models.UserProfile{}, now) {
		t.Fatal("profile without end date should not expire")
	}
	if HasExpired(&models.UserProfile{TrialEndDate: &future}, now) {
		t.Fatal("future end date should not be expired")
	}
	if !HasExpired(&models.UserProfile{TrialEndDate: &past}, now) {
		t.Fatal("past end date should be expired")
	}
	if !HasExpired(&models.UserProfile{TrialEndDate: &now}, now) {
		t.Fatal("end date equal to now should count as expired")
	}
}

func TestIsInTrialRequiresStatusAndClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	active := &models.UserProfile{TrialStatus: enums.TrialStatusActive, TrialEndDate: &future}
	if !IsInTrial(active, now) {
		t.Fatal("active status with future end date should be in trial")
	}

	stale := &models.UserProfile{TrialStatus: enums.TrialStatusActive, TrialEndDate: &past}
	if IsInTrial(stale, now) {
		t.Fatal("stale active row past end date should not be in trial")
	}

	converted := &models.UserProfile{TrialStatus: enums.TrialStatusConverted, TrialEndDate: &future}
	if IsInTrial(converted, now) {
		t.Fatal("converted profile should not be in trial")
	}
}

func TestWindowIndex(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"at start", start, 0},
		{"just inside first window", start.Add(23*time.Hour + 59*time.Minute), 0},
		{"exact boundary", start.Add(24 * time.Hour), 1},
		{"third day", start.Add(50 * time.Hour), 2},
		{"before start clamps", start.Add(-time.Hour), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WindowIndex(start, tc.now); got != tc.want {
				t.Fatalf("WindowIndex = %d, want %d", got, tc.want)
			}
		})
	}
}
