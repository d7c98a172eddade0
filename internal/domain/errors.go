package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// A note owned by someone else surfaces the same sentinel, so ownership
	// is never revealed through distinguishable errors.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether username or password failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked signals temporary lockout after repeated failed attempts.
	ErrAccountLocked = errors.New("account locked")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrWeakPassword  = errors.New("weak password")
	ErrConflict      = errors.New("conflict")
	ErrRateLimited   = errors.New("rate limited")
)

// LockoutError carries the remaining lock duration alongside the
// ErrAccountLocked sentinel so the boundary can render a retry estimate
// without exposing tracker internals.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("account locked: retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *LockoutError) Unwrap() error { return ErrAccountLocked }
