package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viralforge/secure-notes/internal/domain"
	"github.com/viralforge/secure-notes/internal/ports"
)

// Register creates a local account after field, confirmation, and policy checks.
// Registration messages may be specific; only login failures are generic.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" || req.Confirm == "" {
		return fmt.Errorf("%w: missing fields", domain.ErrInvalidInput)
	}
	if len(username) > 64 {
		return fmt.Errorf("%w: username must be <= 64 characters", domain.ErrInvalidInput)
	}
	if req.Password != req.Confirm {
		return fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.Password, username); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAtUTC: s.nowFn(),
	})
	if err != nil {
		return err
	}

	appLogger().InfoContext(ctx, "register_ok",
		"operation", "register",
		"outcome", "success",
		"user_id", user.ID,
	)
	return nil
}

// Login runs the auth gate: rate limit, lockout check, lookup, verify.
// Both unknown-user and wrong-password paths converge on the same sentinel,
// and tracker state is only mutated once the outcome is fully determined.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return LoginResult{}, fmt.Errorf("%w: missing fields", domain.ErrInvalidInput)
	}

	if s.limiter != nil && strings.TrimSpace(req.IPAddress) != "" {
		allowed, err := s.limiter.Allow(ctx, "login:"+req.IPAddress, s.nowFn())
		if err != nil {
			appLogger().WarnContext(ctx, "rate-limit state unavailable",
				"operation", "login",
				"outcome", "warning",
				"error", err,
			)
		} else if !allowed {
			return LoginResult{}, domain.ErrRateLimited
		}
	}

	key := lockoutKey(username, req.IPAddress)
	now := s.nowFn()
	state, err := s.tracker.CheckLocked(ctx, key, now)
	if err == nil && state.Locked(now) {
		appLogger().WarnContext(ctx, "lockout active",
			"operation", "login",
			"outcome", "blocked",
			"key", key,
			"locked_until", state.LockedUntil,
		)
		return LoginResult{}, &domain.LockoutError{RetryAfter: state.LockedUntil.Sub(now)}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Only a definitive miss is a credential failure; a store outage
		// must not feed the tracker or masquerade as a bad password.
		if errors.Is(err, domain.ErrNotFound) {
			s.failLogin(ctx, key, nil, req, "USER_NOT_FOUND")
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.failLogin(ctx, key, &user.ID, req, "INVALID_PASSWORD")
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	_ = s.tracker.Clear(ctx, key)

	now = s.nowFn()
	token, err := s.sessions.Create(ctx, user.Username, now)
	if err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	_ = s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		UserID:    &user.ID,
		AttemptAt: now,
		IPAddress: req.IPAddress,
		Status:    "SUCCESS",
		UserAgent: req.UserAgent,
	})

	appLogger().InfoContext(ctx, "auth_ok",
		"operation", "login",
		"outcome", "success",
		"user_id", user.ID,
	)

	return LoginResult{Token: token, Username: user.Username}, nil
}

// Logout destroys the session; destroying an unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

// Authenticate resolves a session token to its identity.
// Unknown and expired tokens are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", domain.ErrUnauthorized
	}
	username, err := s.sessions.Resolve(ctx, token, s.nowFn())
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return username, nil
}

// LoginHistory returns the caller's recent login attempts, newest first.
func (s *Service) LoginHistory(ctx context.Context, username string, q LoginHistoryQuery) ([]LoginHistoryItem, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	offset := (q.Page - 1) * q.Limit

	attempts, err := s.loginAttempts.ListByUser(ctx, user.ID, q.Limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]LoginHistoryItem, 0, len(attempts))
	for _, attempt := range attempts {
		result = append(result, LoginHistoryItem{
			ID:            attempt.ID,
			Timestamp:     attempt.AttemptAt,
			Status:        attempt.Status,
			FailureReason: attempt.FailureReason,
			IPAddress:     attempt.IPAddress,
		})
	}
	return result, nil
}
