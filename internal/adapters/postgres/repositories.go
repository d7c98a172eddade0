package postgres

import (
	"errors"

	"github.com/viralforge/secure-notes/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users         ports.UserRepository
	Notes         ports.NoteRepository
	LoginAttempts ports.LoginAttemptRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         &userRepository{db: db},
		Notes:         &noteRepository{db: db},
		LoginAttempts: &loginAttemptRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
