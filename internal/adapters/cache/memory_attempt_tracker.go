package cache

import (
	"context"
	"sync"
	"time"

	"github.com/viralforge/secure-notes/internal/ports"
)

type attemptRecord struct {
	count       int
	windowStart time.Time
	window      time.Duration
	lockedUntil time.Time
}

func (r *attemptRecord) locked(now time.Time) bool {
	return r.lockedUntil.After(now)
}

func (r *attemptRecord) stale(now time.Time) bool {
	return !r.locked(now) && now.Sub(r.windowStart) >= r.window
}

// MemoryAttemptTracker keeps brute-force state in process memory.
// Restarts drop all lockouts, which is the accepted tradeoff for
// single-instance deployment. Check, register, and clear share one mutex so
// concurrent bursts cannot race past the threshold.
type MemoryAttemptTracker struct {
	mu      sync.Mutex
	records map[string]*attemptRecord
}

func NewMemoryAttemptTracker() *MemoryAttemptTracker {
	return &MemoryAttemptTracker{records: make(map[string]*attemptRecord)}
}

// CheckLocked reports the current lockout state for a key.
// Stale unlocked records whose window has elapsed are deleted here to bound
// memory without a background sweeper.
func (t *MemoryAttemptTracker) CheckLocked(_ context.Context, key string, now time.Time) (ports.LockoutState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[key]
	if !ok {
		return ports.LockoutState{}, nil
	}

	if rec.locked(now) {
		until := rec.lockedUntil
		return ports.LockoutState{FailedCount: rec.count, LockedUntil: &until}, nil
	}

	if rec.stale(now) {
		delete(t.records, key)
		return ports.LockoutState{}, nil
	}

	return ports.LockoutState{FailedCount: rec.count}, nil
}

// RegisterFailure counts a failure inside the rolling window and sets the
// lock at the threshold. An active lock is never extended by further
// failures; lockedUntil dominates the locked check.
func (t *MemoryAttemptTracker) RegisterFailure(_ context.Context, key string, now time.Time, policy ports.LockoutPolicy) (ports.LockoutState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[key]
	if !ok {
		rec = &attemptRecord{windowStart: now, window: policy.Window}
		t.records[key] = rec
	}

	if rec.locked(now) {
		until := rec.lockedUntil
		return ports.LockoutState{FailedCount: rec.count, LockedUntil: &until}, nil
	}

	if now.Sub(rec.windowStart) >= policy.Window {
		rec.count = 0
		rec.windowStart = now
		rec.lockedUntil = time.Time{}
	}

	rec.count++
	rec.window = policy.Window
	state := ports.LockoutState{FailedCount: rec.count}
	if rec.count >= policy.Threshold {
		rec.lockedUntil = now.Add(policy.LockDuration)
		until := rec.lockedUntil
		state.LockedUntil = &until
	}
	return state, nil
}

// Clear removes all state for a key after successful authentication.
func (t *MemoryAttemptTracker) Clear(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, key)
	return nil
}
