package application

import (
	"time"

	"github.com/viralforge/secure-notes/internal/domain"
)

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult carries the opaque session token for cookie transport.
type LoginResult struct {
	Token    string
	Username string
}

type NoteRequest struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type NoteItem struct {
	ID        int64     `json:"id"`
	Heading   string    `json:"heading"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginHistoryQuery struct {
	Page  int
	Limit int
}

type LoginHistoryItem struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	IPAddress     string    `json:"ip_address"`
}

func toNoteItem(n domain.Note) NoteItem {
	return NoteItem{
		ID:        n.ID,
		Heading:   n.Heading,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}
