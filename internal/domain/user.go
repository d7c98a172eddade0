package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical authentication identity.
// Username is stored case-sensitive; lockout tracking lowercases it
// separately, so two identities differing only by case share throttling.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Note is an owner-scoped record. Owner equality with the session identity
// is the sole authorization invariant for note operations.
type Note struct {
	ID        int64
	Owner     string
	Heading   string
	Content   string
	CreatedAt time.Time
}

// LoginAttempt records authentication outcomes for audit and history.
// FailureReason never appears in login responses; only the owner's own
// history exposes it.
type LoginAttempt struct {
	ID            int64
	UserID        *uuid.UUID
	AttemptAt     time.Time
	IPAddress     string
	Status        string
	FailureReason string
	UserAgent     string
}
