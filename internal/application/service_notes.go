package application

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/viralforge/secure-notes/internal/domain"
	"github.com/viralforge/secure-notes/internal/ports"
)

const (
	noteListLimit   = 50
	noteRecentLimit = 10
	headingMaxLen   = 255
	contentMaxLen   = 1000
)

// ListNotes returns the owner's notes, most recent first, bounded.
func (s *Service) ListNotes(ctx context.Context, owner string) ([]NoteItem, error) {
	notes, err := s.notes.ListByOwner(ctx, owner, noteListLimit)
	if err != nil {
		return nil, err
	}
	return toNoteItems(notes), nil
}

// CreateNote validates bounds before any store access and returns the most
// recent notes so clients can refresh in one round trip.
func (s *Service) CreateNote(ctx context.Context, owner string, req NoteRequest) ([]NoteItem, error) {
	heading, content, err := validateNote(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.notes.Create(ctx, ports.NoteCreateParams{
		Owner:        owner,
		Heading:      heading,
		Content:      content,
		CreatedAtUTC: s.nowFn(),
	}); err != nil {
		return nil, err
	}
	s.metrics.IncNotesPosted()

	notes, err := s.notes.ListByOwner(ctx, owner, noteRecentLimit)
	if err != nil {
		return nil, err
	}
	return toNoteItems(notes), nil
}

// UpdateNote mutates only rows matching both id and owner; a foreign or
// missing id surfaces the same NotFound.
func (s *Service) UpdateNote(ctx context.Context, owner string, id int64, req NoteRequest) ([]NoteItem, error) {
	heading, content, err := validateNote(req)
	if err != nil {
		return nil, err
	}

	if err := s.notes.Update(ctx, owner, id, heading, content); err != nil {
		return nil, err
	}

	appLogger().InfoContext(ctx, "note_edit",
		"operation", "update_note",
		"outcome", "success",
		"note_id", id,
	)

	notes, err := s.notes.ListByOwner(ctx, owner, noteListLimit)
	if err != nil {
		return nil, err
	}
	return toNoteItems(notes), nil
}

// DeleteNote removes only rows matching both id and owner.
func (s *Service) DeleteNote(ctx context.Context, owner string, id int64) ([]NoteItem, error) {
	if err := s.notes.Delete(ctx, owner, id); err != nil {
		return nil, err
	}

	appLogger().InfoContext(ctx, "note_delete",
		"operation", "delete_note",
		"outcome", "success",
		"note_id", id,
	)

	notes, err := s.notes.ListByOwner(ctx, owner, noteListLimit)
	if err != nil {
		return nil, err
	}
	return toNoteItems(notes), nil
}

// validateNote trims both fields and bounds them in characters, not bytes,
// so multibyte text is measured the way the column widths are.
func validateNote(req NoteRequest) (string, string, error) {
	heading := strings.TrimSpace(req.Heading)
	if heading == "" || utf8.RuneCountInString(heading) > headingMaxLen {
		return "", "", fmt.Errorf("%w: invalid heading", domain.ErrInvalidInput)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > contentMaxLen {
		return "", "", fmt.Errorf("%w: invalid content", domain.ErrInvalidInput)
	}
	return heading, content, nil
}

func toNoteItems(notes []domain.Note) []NoteItem {
	items := make([]NoteItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, toNoteItem(n))
	}
	return items
}
