package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
)

// trialExpirer flips lapsed trials to expired and reports how many changed.
type trialExpirer interface {
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

// TrialExpiryJob sweeps profiles whose trial window has passed. The access
// engine treats those rows as non-subscribers already; this job makes the
// stored trial_status catch up.
type TrialExpiryJob struct {
	profiles trialExpirer
	logg     *logger.Logger
	now      func() time.Time
}

// TrialExpiryJobParams configure the sweeper.
type TrialExpiryJobParams struct {
	Profiles trialExpirer
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewTrialExpiryJob builds the trial expiry sweeper.
func NewTrialExpiryJob(params TrialExpiryJobParams) (*TrialExpiryJob, error) {
	if params.Profiles == nil {
		return nil, errors.New("profiles repository required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &TrialExpiryJob{
		profiles: params.Profiles,
		logg:     params.Logger,
		now:      params.Now,
	}, nil
}

// Name implements Job.
func (j *TrialExpiryJob) Name() string { return "trial_expiry" }

// Run implements Job.
func (j *TrialExpiryJob) Run(ctx context.Context) error {
	expired, err := j.profiles.ExpireTrials(ctx, j.now())
	if err != nil {
		return fmt.Errorf("expiring trials: %w", err)
	}
	if expired > 0 {
		j.logg.Info(j.logg.WithField(ctx, "expired", expired), "trials swept to expired")
	}
	return nil
}
