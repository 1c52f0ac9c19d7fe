package cron

import (
	"context"
	"errors"
	"testing"
)

type fakeLock struct {
	acquired bool
	acquires int
	releases int
	err      error
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) {
	f.acquires++
	return f.acquired, f.err
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.releases++
	return nil
}

type fakeJob struct {
	name string
	runs int
	err  error
}

func (f *fakeJob) Name() string { return f.name }
func (f *fakeJob) Run(ctx context.Context) error {
	f.runs++
	return f.err
}

func TestRunCycleExecutesJobsInOrder(t *testing.T) {
	first := &fakeJob{name: "first"}
	second := &fakeJob{name: "second"}
	lock := &fakeLock{acquired: true}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(first, second),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 {
		t.Fatalf("expected both jobs to run once, got %d and %d", first.runs, second.runs)
	}
	if lock.releases != 1 {
		t.Fatal("lock must be released after the cycle")
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &fakeJob{name: "sweeper"}
	svc, _ := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     &fakeLock{acquired: false},
	})

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatal("jobs must not run without the lock")
	}
}

func TestRunCycleContinuesPastFailingJob(t *testing.T) {
	failing := &fakeJob{name: "broken", err: errors.New("boom")}
	healthy := &fakeJob{name: "healthy"}
	svc, _ := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(failing, healthy),
		Lock:     &fakeLock{acquired: true},
	})

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if healthy.runs != 1 {
		t.Fatal("a failing job must not stop the cycle")
	}
}
