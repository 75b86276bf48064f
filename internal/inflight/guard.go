// Package inflight tracks keys that have an operation in progress.
// A key is acquired before the operation starts and released after a delay
// once it finishes, so near-simultaneous re-triggers of the same logical
// event are suppressed as well as truly concurrent ones.
package inflight

import (
	"context"
	"sync"
	"time"
)

// Guard is a per-key advisory lock with timed release.
type Guard interface {
	// Acquire marks key as in flight. It returns false, without error, if the
	// key is already held. Check and insert are atomic.
	Acquire(ctx context.Context, key string) (bool, error)

	// ReleaseAfter frees key once delay has elapsed. A delay <= 0 frees it
	// immediately. Releasing a key that is not held is a no-op.
	ReleaseAfter(ctx context.Context, key string, delay time.Duration) error

	// Held reports whether key is currently in flight.
	Held(ctx context.Context, key string) (bool, error)
}

// MemoryGuard is a Guard for a single process.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]uint64
	gen  uint64
}

// NewMemoryGuard returns an empty MemoryGuard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]uint64)}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false, nil
	}
	g.gen++
	g.held[key] = g.gen
	return true, nil
}

func (g *MemoryGuard) ReleaseAfter(_ context.Context, key string, delay time.Duration) error {
	g.mu.Lock()
	gen, ok := g.held[key]
	if ok && delay <= 0 {
		delete(g.held, key)
	}
	g.mu.Unlock()

	if !ok || delay <= 0 {
		return nil
	}
	// The generation check stops a stale timer from freeing a later acquisition.
	time.AfterFunc(delay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.held[key] == gen {
			delete(g.held, key)
		}
	})
	return nil
}

func (g *MemoryGuard) Held(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok, nil
}

var _ Guard = (*MemoryGuard)(nil)
