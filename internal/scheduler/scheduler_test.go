package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDisabledScheduler(t *testing.T) {
	var calls atomic.Int32
	s := New(0, time.Second, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("refresh ran %d times with scheduling disabled", calls.Load())
	}
}

func TestSchedulerRunsRefresh(t *testing.T) {
	done := make(chan struct{}, 8)
	s := New(100*time.Millisecond, time.Second, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("refresh context has no deadline")
		}
		done <- struct{}{}
		return errors.New("provider down")
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("refresh never ran")
	}
}
