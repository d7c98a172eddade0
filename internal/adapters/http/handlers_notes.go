package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/secure-notes/internal/application"
	"github.com/viralforge/secure-notes/internal/domain"
)

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	items, err := h.service.ListNotes(r.Context(), username)
	if err != nil {
		writeMappedError(r.Context(), w, "list_notes", err)
		return
	}
	writeItems(w, http.StatusOK, "", items)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req application.NoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_note", err)
		return
	}

	items, err := h.service.CreateNote(r.Context(), username, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_note", err)
		return
	}
	writeItems(w, http.StatusCreated, "Note created", items)
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := noteIDFromURL(r)
	if err != nil {
		writeMappedError(r.Context(), w, "update_note", err)
		return
	}

	var req application.NoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_note", err)
		return
	}

	items, err := h.service.UpdateNote(r.Context(), username, id, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_note", err)
		return
	}
	writeItems(w, http.StatusOK, "Note updated", items)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := noteIDFromURL(r)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_note", err)
		return
	}

	items, err := h.service.DeleteNote(r.Context(), username, id)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_note", err)
		return
	}
	writeItems(w, http.StatusOK, "Note deleted", items)
}

// noteIDFromURL parses the path id; a malformed id maps to NotFound so probing
// responses stay uniform with foreign and missing ids.
func noteIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}
