package cron

import (
	"context"
	"errors"
	"testing"
)

type fakeLock struct {
	acquired bool
	err      error
	releases int
}

func (l *fakeLock) Acquire(ctx context.Context) (bool, error) {
	return l.acquired, l.err
}

func (l *fakeLock) Release(ctx context.Context) error {
	l.releases++
	return nil
}

type fakeJob struct {
	name string
	runs int
	err  error
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestRunCycleExecutesJobsUnderLock(t *testing.T) {
	lock := &fakeLock{acquired: true}
	first := &fakeJob{name: "first"}
	second := &fakeJob{name: "second", err: errors.New("boom")}
	svc, err := NewService(ServiceParams{
		Logger:   cronTestLogger(),
		Registry: NewRegistry(first, second),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 {
		t.Errorf("job runs = (%d, %d), want (1, 1)", first.runs, second.runs)
	}
	if lock.releases != 1 {
		t.Errorf("lock releases = %d, want 1", lock.releases)
	}
}

func TestRunCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	lock := &fakeLock{acquired: false}
	job := &fakeJob{name: "sweep"}
	svc, err := NewService(ServiceParams{
		Logger:   cronTestLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Errorf("job runs = %d, want 0", job.runs)
	}
	if lock.releases != 0 {
		t.Errorf("lock releases = %d, want 0", lock.releases)
	}
}

func TestRunCycleReturnsLockError(t *testing.T) {
	lock := &fakeLock{err: errors.New("redis down")}
	svc, err := NewService(ServiceParams{
		Logger: cronTestLogger(),
		Lock:   lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.runCycle(context.Background()); err == nil {
		t.Fatal("runCycle should fail when the lock backend is unreachable")
	}
}
