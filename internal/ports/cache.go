package ports

import (
	"context"
	"time"
)

// LockoutState is the current brute-force state for a tracking key.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// Locked reports whether the state blocks authentication at the given instant.
func (s LockoutState) Locked(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// LockoutPolicy bounds failure counting and lock duration.
type LockoutPolicy struct {
	Threshold    int
	Window       time.Duration
	LockDuration time.Duration
}

// AttemptTracker handles brute-force protection state keyed by
// (identity, origin). The check-then-register sequence must be atomic per
// key so concurrent bursts cannot bypass the threshold.
type AttemptTracker interface {
	CheckLocked(ctx context.Context, key string, now time.Time) (LockoutState, error)
	RegisterFailure(ctx context.Context, key string, now time.Time, policy LockoutPolicy) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}

// SessionStore binds opaque tokens to identities.
// Resolve returns domain.ErrUnauthorized uniformly for unknown and expired
// tokens; callers cannot tell the two apart.
type SessionStore interface {
	Create(ctx context.Context, username string, now time.Time) (string, error)
	Resolve(ctx context.Context, token string, now time.Time) (string, error)
	Destroy(ctx context.Context, token string) error
}

// RateLimiter applies a coarse fixed-window limit per key.
// It gates the login endpoint independently of the lockout state machine.
type RateLimiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, error)
}
