package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"squadup-app/internal/service"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (c *countingReconciler) ReconcileRatings(context.Context) (service.ReconcileReport, error) {
	c.calls.Add(1)
	return service.ReconcileReport{}, c.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunNow(t *testing.T) {
	r := &countingReconciler{err: errors.New("db gone")}
	s := NewScheduler(r, "@every 1h", quiet())
	s.RunNow()
	if r.calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", r.calls.Load())
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&countingReconciler{}, "every now and then", quiet())
	if err := s.Start(); err == nil {
		t.Fatal("expected error for bad schedule")
	}
}

func TestScheduledRun(t *testing.T) {
	r := &countingReconciler{}
	s := NewScheduler(r, "@every 1s", quiet())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for r.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	if r.calls.Load() == 0 {
		t.Fatal("job never ran")
	}
}
