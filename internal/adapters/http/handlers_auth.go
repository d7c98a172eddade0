package http

import (
	"net/http"

	"github.com/viralforge/secure-notes/internal/application"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	if err := h.service.Register(r.Context(), req); err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}
	writeMessage(w, http.StatusCreated, "Registration successful. You can now log in.")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	setSessionCookie(w, res.Token)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"message":  "Login successful",
		"username": res.Username,
	})
}

// logout is deliberately unauthenticated: a stale or missing session still
// gets its cookie cleared instead of a 401.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		token = cookie.Value
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}
	clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *Handler) loginHistory(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := application.LoginHistoryQuery{
		Page:  parseIntDefault(r.URL.Query().Get("page"), 1),
		Limit: parseIntDefault(r.URL.Query().Get("limit"), 20),
	}
	items, err := h.service.LoginHistory(r.Context(), username, q)
	if err != nil {
		writeMappedError(r.Context(), w, "login_history", err)
		return
	}
	writeItems(w, http.StatusOK, "", items)
}
