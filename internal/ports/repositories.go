package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/secure-notes/internal/domain"
)

// CreateUserParams captures user-creation inputs.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	CreatedAtUTC time.Time
}

// UserRepository defines persistence operations for user identities.
// A duplicate username surfaces domain.ErrConflict from Create.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// NoteCreateParams captures a validated note prior to storage.
type NoteCreateParams struct {
	Owner        string
	Heading      string
	Content      string
	CreatedAtUTC time.Time
}

// NoteRepository manages owner-scoped note persistence.
// Update and Delete must include both id and owner in the predicate; zero
// matched rows surface domain.ErrNotFound so a foreign id and a missing id
// are indistinguishable.
type NoteRepository interface {
	ListByOwner(ctx context.Context, owner string, limit int) ([]domain.Note, error)
	Create(ctx context.Context, params NoteCreateParams) (domain.Note, error)
	Update(ctx context.Context, owner string, id int64, heading, content string) error
	Delete(ctx context.Context, owner string, id int64) error
}

// LoginAttemptRepository stores login outcomes used by the audit history endpoint.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.LoginAttempt, error)
}
