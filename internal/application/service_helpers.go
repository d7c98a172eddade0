package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/secure-notes/internal/domain"
	"github.com/viralforge/secure-notes/internal/ports"
)

const serviceName = "Secure-Notes-Service"

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", serviceName,
		"module", "application",
		"layer", "application",
	)
}

// lockoutKey scopes brute-force tracking to (identity, origin).
// The identity is lowercased, so identities differing only by case share a
// counter; the origin is used as-is.
func lockoutKey(username, origin string) string {
	return strings.ToLower(username) + "|" + origin
}

// failLogin records the failed attempt for audit, advances the tracker, and
// logs the internal reason. The caller returns the generic credentials error
// regardless of which sub-case occurred.
func (s *Service) failLogin(ctx context.Context, key string, userID *uuid.UUID, req LoginRequest, reason string) {
	s.metrics.IncLoginFailed()

	if err := s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		UserID:        userID,
		AttemptAt:     s.nowFn(),
		IPAddress:     req.IPAddress,
		Status:        "FAILED",
		FailureReason: reason,
		UserAgent:     req.UserAgent,
	}); err != nil {
		appLogger().WarnContext(ctx, "failed to persist login attempt",
			"operation", "record_login_failure",
			"outcome", "failure",
			"reason", reason,
			"error", err,
		)
	}

	appLogger().WarnContext(ctx, "auth_fail",
		"operation", "login",
		"outcome", "failure",
		"reason", reason,
		"key", key,
	)

	now := s.nowFn()
	state, err := s.tracker.RegisterFailure(ctx, key, now, s.lockoutPolicy())
	if err != nil {
		appLogger().ErrorContext(ctx, "failed to update lockout state",
			"operation", "login",
			"outcome", "failure",
			"error", err,
		)
		return
	}
	if state.Locked(now) && state.FailedCount == s.cfg.FailedLoginThreshold {
		s.metrics.IncLockedOut()
		appLogger().WarnContext(ctx, "lockout",
			"operation", "login",
			"outcome", "blocked",
			"key", key,
			"failed_count", state.FailedCount,
			"locked_until", state.LockedUntil,
		)
	}
}

func (s *Service) lockoutPolicy() ports.LockoutPolicy {
	return ports.LockoutPolicy{
		Threshold:    s.cfg.FailedLoginThreshold,
		Window:       s.cfg.FailureWindow,
		LockDuration: s.cfg.LockoutDuration,
	}
}
