// Package jobs runs periodic maintenance work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"squadup-app/internal/service"

	"github.com/robfig/cron/v3"
)

const reconcileTimeout = 5 * time.Minute

// Reconciler is the part of the service the scheduler drives.
type Reconciler interface {
	ReconcileRatings(ctx context.Context) (service.ReconcileReport, error)
}

type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	schedule   string
	log        *slog.Logger
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}

// NewScheduler builds a scheduler that reconciles ratings on schedule, a
// five-field cron expression or a descriptor such as "@every 1h".
func NewScheduler(r Reconciler, schedule string, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "jobs")
	logger := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	return &Scheduler{cron: c, reconciler: r, schedule: schedule, log: log}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runReconcile); err != nil {
		return fmt.Errorf("schedule rating reconcile %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", "reconcile", s.schedule)
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()
	if _, err := s.reconciler.ReconcileRatings(ctx); err != nil {
		s.log.Error("rating reconcile failed", "error", err)
	}
}

// RunNow runs the reconcile job once, outside the schedule.
func (s *Scheduler) RunNow() {
	s.runReconcile()
}
