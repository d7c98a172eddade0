package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/secure-notes/internal/domain"
)

type sessionRecord struct {
	username   string
	createdAt  time.Time
	lastSeenAt time.Time
}

// MemorySessionStore maps opaque tokens to identities in process memory.
// Sessions expire on an idle timeout and an absolute cap; expired records
// are deleted on resolve, so the map stays bounded by active sessions.
type MemorySessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*sessionRecord
	idleTTL     time.Duration
	absoluteTTL time.Duration
}

func NewMemorySessionStore(idleTTL, absoluteTTL time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:    make(map[string]*sessionRecord),
		idleTTL:     idleTTL,
		absoluteTTL: absoluteTTL,
	}
}

func (s *MemorySessionStore) Create(_ context.Context, username string, now time.Time) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &sessionRecord{
		username:   username,
		createdAt:  now,
		lastSeenAt: now,
	}
	return token, nil
}

// Resolve returns the bound identity and refreshes the idle timer.
// Unknown and expired tokens yield the same error.
func (s *MemorySessionStore) Resolve(_ context.Context, token string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[token]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if now.Sub(rec.lastSeenAt) >= s.idleTTL || now.Sub(rec.createdAt) >= s.absoluteTTL {
		delete(s.sessions, token)
		return "", domain.ErrUnauthorized
	}

	rec.lastSeenAt = now
	return rec.username, nil
}

func (s *MemorySessionStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
