package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultRunInterval = 5 * time.Minute

// Runner is one pass of the notification pipeline.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler triggers the pipeline on a fixed interval. Runs are invoked
// synchronously, so a slow pass delays the next tick instead of stacking
// concurrent runs on top of it.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *zap.Logger
}

func NewScheduler(runner Runner, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if interval <= 0 {
		interval = defaultRunInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}, nil
}

// Start runs the pipeline immediately, then on every tick until the context
// is cancelled. It always returns the context's error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error("pipeline run failed", zap.Error(err))
	}
}
