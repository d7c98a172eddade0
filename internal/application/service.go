package application

import (
	"time"

	"github.com/viralforge/secure-notes/internal/ports"
)

// Config holds the tunable protection parameters for the auth gate.
type Config struct {
	FailedLoginThreshold int
	FailureWindow        time.Duration
	LockoutDuration      time.Duration
}

// Service orchestrates authentication, lockout, sessions, and notes.
// All collaborators are injected ports so the core stays testable and the
// tracker/session stores can be swapped without touching the flows.
type Service struct {
	cfg           Config
	users         ports.UserRepository
	notes         ports.NoteRepository
	loginAttempts ports.LoginAttemptRepository
	tracker       ports.AttemptTracker
	sessions      ports.SessionStore
	limiter       ports.RateLimiter
	hasher        ports.PasswordHasher
	metrics       *Metrics
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Users         ports.UserRepository
	Notes         ports.NoteRepository
	LoginAttempts ports.LoginAttemptRepository
	Tracker       ports.AttemptTracker
	Sessions      ports.SessionStore
	Limiter       ports.RateLimiter
	Hasher        ports.PasswordHasher
	Metrics       *Metrics
}

func NewService(deps Dependencies) *Service {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics(time.Now().UTC())
	}
	return &Service{
		cfg:           deps.Config,
		users:         deps.Users,
		notes:         deps.Notes,
		loginAttempts: deps.LoginAttempts,
		tracker:       deps.Tracker,
		sessions:      deps.Sessions,
		limiter:       deps.Limiter,
		hasher:        deps.Hasher,
		metrics:       metrics,
		nowFn:         time.Now().UTC,
	}
}

// Metrics exposes the service counters for the system endpoints.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}
