package core

// run_guard.go keeps at most one import run in flight per owner within this
// process. Across processes the store's advisory lock does the same job;
// the guard answers quickly without a database round trip and lets the
// server report which run currently holds an owner.

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunGuard tracks the active run per owner.
type RunGuard struct {
	mu     sync.Mutex
	active map[uuid.UUID]string
}

// NewRunGuard creates an empty guard.
func NewRunGuard() *RunGuard {
	return &RunGuard{active: make(map[uuid.UUID]string)}
}

// TryAcquire claims owner for runID. It returns false if another run holds it.
// The caller MUST call Release when the run ends (use defer).
func (g *RunGuard) TryAcquire(owner uuid.UUID, runID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[owner]; busy {
		return false
	}
	g.active[owner] = runID
	return true
}

// Release frees owner.
func (g *RunGuard) Release(owner uuid.UUID) {
	g.mu.Lock()
	delete(g.active, owner)
	g.mu.Unlock()
}

// Holder returns the run holding owner, if any.
func (g *RunGuard) Holder(owner uuid.UUID) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.active[owner]
	return id, ok
}

// ActiveCount returns the number of owners with a run in flight.
func (g *RunGuard) ActiveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active)
}

// WaitForDrain blocks until no run is active or ctx is done.
// Used for graceful shutdown.
func (g *RunGuard) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if g.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
