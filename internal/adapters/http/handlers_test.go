package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/secure-notes/internal/adapters/cache"
	"github.com/viralforge/secure-notes/internal/application"
	"github.com/viralforge/secure-notes/internal/domain"
	"github.com/viralforge/secure-notes/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (m *memUserRepo) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = make(map[string]domain.User)
	}
	if _, ok := m.users[params.Username]; ok {
		return domain.User{}, domain.ErrConflict
	}
	user := domain.User{
		ID:           uuid.New(),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    params.CreatedAtUTC,
	}
	m.users[params.Username] = user
	return user, nil
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

type memNoteRepo struct {
	mu     sync.Mutex
	nextID int64
	notes  []domain.Note
}

func (m *memNoteRepo) ListByOwner(_ context.Context, owner string, limit int) ([]domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Note, 0, limit)
	for i := len(m.notes) - 1; i >= 0 && len(result) < limit; i-- {
		if m.notes[i].Owner == owner {
			result = append(result, m.notes[i])
		}
	}
	return result, nil
}

func (m *memNoteRepo) Create(_ context.Context, params ports.NoteCreateParams) (domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	note := domain.Note{
		ID:        m.nextID,
		Owner:     params.Owner,
		Heading:   params.Heading,
		Content:   params.Content,
		CreatedAt: params.CreatedAtUTC,
	}
	m.notes = append(m.notes, note)
	return note, nil
}

func (m *memNoteRepo) Update(_ context.Context, owner string, id int64, heading, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notes {
		if m.notes[i].ID == id && m.notes[i].Owner == owner {
			m.notes[i].Heading = heading
			m.notes[i].Content = content
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memNoteRepo) Delete(_ context.Context, owner string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notes {
		if m.notes[i].ID == id && m.notes[i].Owner == owner {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memAttemptRepo struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (m *memAttemptRepo) Insert(_ context.Context, attempt domain.LoginAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt.ID = int64(len(m.attempts) + 1)
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *memAttemptRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]domain.LoginAttempt, 0)
	for i := len(m.attempts) - 1; i >= 0; i-- {
		if m.attempts[i].UserID != nil && *m.attempts[i].UserID == userID {
			matched = append(matched, m.attempts[i])
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fastHasher struct{}

func (fastHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hashed), err
}

func (fastHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			FailedLoginThreshold: 5,
			FailureWindow:        15 * time.Minute,
			LockoutDuration:      15 * time.Minute,
		},
		Users:         &memUserRepo{},
		Notes:         &memNoteRepo{},
		LoginAttempts: &memAttemptRepo{},
		Tracker:       cache.NewMemoryAttemptTracker(),
		Sessions:      cache.NewMemorySessionStore(30*time.Minute, 12*time.Hour),
		Limiter:       cache.NewMemoryRateLimiter(100, time.Minute),
		Hasher:        fastHasher{},
	})
	server := httptest.NewServer(NewRouter(NewHandler(svc)))
	t.Cleanup(server.Close)
	return server
}

type apiResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Items   []struct {
		ID      int64  `json:"id"`
		Heading string `json:"heading"`
		Content string `json:"content"`
	} `json:"items"`
}

func doJSON(t *testing.T, client *http.Client, method, url, body string) (*http.Response, apiResponse) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return resp, parsed
}

func newCookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func TestRegisterLoginNotesFlow(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newCookieClient(t)

	resp, body := doJSON(t, client, http.MethodPost, server.URL+"/api/register",
		`{"username":"alice","password":"Str0ngPass!word","confirm":"Str0ngPass!word"}`)
	if resp.StatusCode != http.StatusCreated || !body.OK {
		t.Fatalf("register: status %d, body %+v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/login",
		`{"username":"alice","password":"Str0ngPass!word"}`)
	if resp.StatusCode != http.StatusOK || !body.OK {
		t.Fatalf("login: status %d, body %+v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/notes",
		`{"heading":"groceries","content":"milk"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create note: status %d, body %+v", resp.StatusCode, body)
	}
	if len(body.Items) != 1 || body.Items[0].Heading != "groceries" {
		t.Fatalf("create note items: %+v", body.Items)
	}
	noteID := body.Items[0].ID

	resp, body = doJSON(t, client, http.MethodPut, fmt.Sprintf("%s/api/notes/%d", server.URL, noteID),
		`{"heading":"groceries","content":"milk, eggs"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update note: status %d, body %+v", resp.StatusCode, body)
	}
	if len(body.Items) != 1 || body.Items[0].Content != "milk, eggs" {
		t.Fatalf("update note items: %+v", body.Items)
	}

	resp, body = doJSON(t, client, http.MethodDelete, fmt.Sprintf("%s/api/notes/%d", server.URL, noteID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete note: status %d, body %+v", resp.StatusCode, body)
	}
	if len(body.Items) != 0 {
		t.Fatalf("expected empty items after delete, got %+v", body.Items)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/logout", "")
	if resp.StatusCode != http.StatusOK || !body.OK {
		t.Fatalf("logout: status %d, body %+v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodGet, server.URL+"/api/notes", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d (%+v)", resp.StatusCode, body)
	}
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newCookieClient(t)

	payload := `{"username":"alice","password":"Str0ngPass!word","confirm":"Str0ngPass!word"}`
	resp, _ := doJSON(t, client, http.MethodPost, server.URL+"/api/register", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: status %d", resp.StatusCode)
	}

	resp, body := doJSON(t, client, http.MethodPost, server.URL+"/api/register", payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if body.Message != "Username already taken" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestLoginFailureMessagesMatch(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newCookieClient(t)

	resp, _ := doJSON(t, client, http.MethodPost, server.URL+"/api/register",
		`{"username":"alice","password":"Str0ngPass!word","confirm":"Str0ngPass!word"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", resp.StatusCode)
	}

	respUnknown, bodyUnknown := doJSON(t, client, http.MethodPost, server.URL+"/api/login",
		`{"username":"nobody","password":"Str0ngPass!word"}`)
	respWrong, bodyWrong := doJSON(t, client, http.MethodPost, server.URL+"/api/login",
		`{"username":"alice","password":"WrongPass1!xx"}`)

	if respUnknown.StatusCode != http.StatusUnauthorized || respWrong.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected both 401, got %d and %d", respUnknown.StatusCode, respWrong.StatusCode)
	}
	if bodyUnknown.Message != bodyWrong.Message {
		t.Fatalf("failure messages differ: %q vs %q", bodyUnknown.Message, bodyWrong.Message)
	}
	if bodyUnknown.Message != "Invalid username or password" {
		t.Fatalf("unexpected failure message: %q", bodyUnknown.Message)
	}
}

func TestLockoutSurfacesRetryEstimate(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newCookieClient(t)

	resp, _ := doJSON(t, client, http.MethodPost, server.URL+"/api/register",
		`{"username":"alice","password":"Str0ngPass!word","confirm":"Str0ngPass!word"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", resp.StatusCode)
	}

	for i := 0; i < 5; i++ {
		resp, _ := doJSON(t, client, http.MethodPost, server.URL+"/api/login",
			`{"username":"alice","password":"WrongPass1!xx"}`)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("failure %d: expected 401, got %d", i+1, resp.StatusCode)
		}
	}

	resp, body := doJSON(t, client, http.MethodPost, server.URL+"/api/login",
		`{"username":"alice","password":"Str0ngPass!word"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while locked, got %d", resp.StatusCode)
	}
	if !strings.Contains(body.Message, "Try again in") {
		t.Fatalf("expected retry estimate in message, got %q", body.Message)
	}
}

func TestForeignNoteReturnsNotFound(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	alice := newCookieClient(t)
	doJSON(t, alice, http.MethodPost, server.URL+"/api/register",
		`{"username":"alice","password":"Str0ngPass!word","confirm":"Str0ngPass!word"}`)
	doJSON(t, alice, http.MethodPost, server.URL+"/api/login",
		`{"username":"alice","password":"Str0ngPass!word"}`)
	_, body := doJSON(t, alice, http.MethodPost, server.URL+"/api/notes",
		`{"heading":"secret","content":"plans"}`)
	if len(body.Items) != 1 {
		t.Fatalf("expected note created, got %+v", body.Items)
	}
	noteID := body.Items[0].ID

	mallory := newCookieClient(t)
	doJSON(t, mallory, http.MethodPost, server.URL+"/api/register",
		`{"username":"mallory","password":"An0therPass!wd","confirm":"An0therPass!wd"}`)
	doJSON(t, mallory, http.MethodPost, server.URL+"/api/login",
		`{"username":"mallory","password":"An0therPass!wd"}`)

	resp, body := doJSON(t, mallory, http.MethodPut, fmt.Sprintf("%s/api/notes/%d", server.URL, noteID),
		`{"heading":"x","content":"y"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign update: expected 404, got %d (%+v)", resp.StatusCode, body)
	}
	resp, _ = doJSON(t, mallory, http.MethodDelete, fmt.Sprintf("%s/api/notes/%d", server.URL, noteID), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", resp.StatusCode)
	}

	// Malformed ids collapse into the same response.
	resp, _ = doJSON(t, mallory, http.MethodDelete, server.URL+"/api/notes/abc", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %d", resp.StatusCode)
	}
}

func TestGuardedRoutesRequireSession(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := &http.Client{}

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/notes"},
		{http.MethodPost, "/api/notes"},
		{http.MethodPut, "/api/notes/1"},
		{http.MethodDelete, "/api/notes/1"},
		{http.MethodGet, "/api/login-history"},
	} {
		resp, body := doJSON(t, client, route.method, server.URL+route.path, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, resp.StatusCode)
		}
		if body.OK {
			t.Fatalf("%s %s: expected ok=false", route.method, route.path)
		}
	}
}

func TestLogoutWithoutSessionClearsCookie(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := &http.Client{}

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/logout", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	// A stale token from a session that no longer exists.
	req.AddCookie(&http.Cookie{Name: "sid", Value: "expired-token"})

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for logout without a live session, got %d", resp.StatusCode)
	}

	cleared := false
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "sid" && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the response to clear the sid cookie")
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}
	var health map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "ok" {
		t.Fatalf("health status: %v", health["status"])
	}

	resp2, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp2.Body.Close()
	var metrics map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if _, ok := metrics["total_requests"]; !ok {
		t.Fatalf("expected total_requests in metrics, got %v", metrics)
	}
}
