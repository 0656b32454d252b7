// Package scheduler drives periodic collection cycles with single-flight
// semantics and a bounded shutdown grace period.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs one job on a fixed interval. A tick or manual trigger that
// arrives while a cycle is running is coalesced into at most one pending run.
type Scheduler struct {
	run      func(context.Context)
	interval time.Duration
	grace    time.Duration

	cron *cron.Cron

	mu      sync.Mutex
	running bool
	pending bool

	wg sync.WaitGroup
}

// New builds a scheduler for the given job.
func New(interval, grace time.Duration, run func(context.Context)) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if grace <= 0 {
		grace = 60 * time.Second
	}
	return &Scheduler{run: run, interval: interval, grace: grace, cron: cron.New()}
}

// Start schedules periodic runs and fires the first cycle immediately. ctx
// cancellation propagates into the running job.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.trigger(ctx) }); err != nil {
		return fmt.Errorf("scheduler: schedule %q: %w", spec, err)
	}
	s.cron.Start()
	slog.Info("scheduler: started", "interval", s.interval)

	s.trigger(ctx)
	return nil
}

// TriggerNow requests an immediate cycle. If one is already running, one
// pending run is queued; further requests collapse into it.
func (s *Scheduler) TriggerNow(ctx context.Context) {
	slog.Info("scheduler: manual trigger")
	s.trigger(ctx)
}

func (s *Scheduler) trigger(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.pending = true
		s.mu.Unlock()
		slog.Info("scheduler: cycle in flight, queued one pending run")
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			if ctx.Err() != nil {
				s.mu.Lock()
				s.running = false
				s.pending = false
				s.mu.Unlock()
				return
			}
			s.run(ctx)

			s.mu.Lock()
			if !s.pending {
				s.running = false
				s.mu.Unlock()
				return
			}
			s.pending = false
			s.mu.Unlock()
		}
	}()
}

// Stop halts the ticker and waits up to the grace period for an in-flight
// cycle to finish. Returns false if the wait timed out.
func (s *Scheduler) Stop() bool {
	s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("scheduler: stopped cleanly")
		return true
	case <-time.After(s.grace):
		slog.Warn("scheduler: grace period expired with cycle in flight", "grace", s.grace)
		return false
	}
}
