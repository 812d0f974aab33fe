// Package scheduler triggers automatic workflow runs on a cron spec, using
// the configured default topic and platform set.
package scheduler

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/awjames6875/shipflow/internal/conf"
	"github.com/awjames6875/shipflow/internal/workflow"
	"github.com/awjames6875/shipflow/pkg/log"
)

// Runner executes workflow runs; satisfied by *workflow.Orchestrator.
type Runner interface {
	Execute(ctx context.Context, in workflow.Input) (*workflow.Run, error)
}

// Scheduler owns the cron loop for auto-triggered runs.
type Scheduler struct {
	cron      *cron.Cron
	runner    Runner
	cfg       conf.Schedule
	platforms []string
}

func New(runner Runner, cfg conf.Schedule, platforms []string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		runner:    runner,
		cfg:       cfg,
		platforms: platforms,
	}
}

// Start registers the scheduled run and starts the cron loop. Disabled
// schedules are a no-op.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		return nil
	}
	if s.cfg.Topic == "" {
		return errors.New("schedule: topic is required when the schedule is enabled")
	}
	if _, err := s.cron.AddFunc(s.cfg.Spec, s.runOnce); err != nil {
		return errors.Wrapf(err, "schedule: invalid cron spec %q", s.cfg.Spec)
	}
	s.cron.Start()
	log.Infow("scheduler started", "spec", s.cfg.Spec, "topic", s.cfg.Topic)
	return nil
}

// Stop halts the cron loop and waits for a running job to end.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	run, err := s.runner.Execute(context.Background(), workflow.Input{
		Topic:     s.cfg.Topic,
		Platforms: s.platforms,
	})
	if err != nil {
		log.Errorw("scheduled run rejected", "err", err)
		return
	}
	log.Infow("scheduled run finished", "run", run.ID, "status", run.Status)
}
