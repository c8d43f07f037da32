package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRunGuard_AcquireRelease(t *testing.T) {
	guard := NewRunGuard()
	owner := uuid.New()

	if !guard.TryAcquire(owner, "run-1") {
		t.Fatal("first TryAcquire should succeed")
	}
	if guard.TryAcquire(owner, "run-2") {
		t.Error("second TryAcquire for the same owner should fail")
	}
	if id, ok := guard.Holder(owner); !ok || id != "run-1" {
		t.Errorf("Holder() = %q, %v; want run-1", id, ok)
	}

	// Owners are independent.
	if !guard.TryAcquire(uuid.New(), "run-3") {
		t.Error("other owner should not be blocked")
	}
	if got := guard.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}

	guard.Release(owner)
	if _, ok := guard.Holder(owner); ok {
		t.Error("owner should be free after Release")
	}
	if !guard.TryAcquire(owner, "run-4") {
		t.Error("TryAcquire after Release should succeed")
	}
}

func TestRunGuard_Concurrent(t *testing.T) {
	guard := NewRunGuard()
	owner := uuid.New()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.TryAcquire(owner, uuid.NewString()) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("%d goroutines acquired the owner, want 1", got)
	}
}

func TestRunGuard_WaitForDrain(t *testing.T) {
	guard := NewRunGuard()
	owner := uuid.New()
	guard.TryAcquire(owner, "run-1")

	go func() {
		time.Sleep(50 * time.Millisecond)
		guard.Release(owner)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := guard.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain() error = %v", err)
	}
}

func TestRunGuard_WaitForDrainTimeout(t *testing.T) {
	guard := NewRunGuard()
	guard.TryAcquire(uuid.New(), "stuck")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := guard.WaitForDrain(ctx); err != context.DeadlineExceeded {
		t.Errorf("WaitForDrain() error = %v, want DeadlineExceeded", err)
	}
}
