package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingRunner struct {
	runs atomic.Int64
	err  error
}

func (r *countingRunner) Run(ctx context.Context) error {
	r.runs.Add(1)
	return r.err
}

func TestSchedulerRunsImmediately(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{}
	scheduler, err := NewScheduler(runner, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Start(ctx)
	}()

	waitFor(t, func() bool { return runner.runs.Load() == 1 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() error = %v, want context.Canceled", err)
	}
	if got := runner.runs.Load(); got != 1 {
		t.Fatalf("runs = %d, want exactly 1 before the first tick", got)
	}
}

func TestSchedulerTicks(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{}
	scheduler, err := NewScheduler(runner, 10*time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Start(ctx)
	}()

	waitFor(t, func() bool { return runner.runs.Load() >= 3 })
	cancel()
	<-done
}

func TestSchedulerKeepsTickingAfterRunError(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{err: errors.New("transient failure")}
	scheduler, err := NewScheduler(runner, 10*time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Start(ctx)
	}()

	waitFor(t, func() bool { return runner.runs.Load() >= 2 })
	cancel()
	<-done
}

func TestSchedulerDefaults(t *testing.T) {
	t.Parallel()

	if _, err := NewScheduler(nil, time.Minute, nil); err == nil {
		t.Fatal("expected error for nil runner")
	}

	scheduler, err := NewScheduler(&countingRunner{}, 0, nil)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if scheduler.interval != defaultRunInterval {
		t.Fatalf("interval = %v, want default %v", scheduler.interval, defaultRunInterval)
	}
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
