package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanvir/listhub/internal/server"
)

// newTestServer boots the full stack — in-memory SQLite, embedded token
// store, mock email sender — behind an httptest server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := server.New(server.Config{
		DBPath:     ":memory:",
		JWTSecret:  "integration-test-secret-key",
		SessionTTL: time.Hour,
		BaseURL:    "http://localhost:8080",
	}, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

// newClient returns an http.Client with a cookie jar, so the session cookie
// set by login rides along on every later request.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

// signupAndLogin registers a user and opens a session, returning a client
// whose jar carries the session cookie.
func signupAndLogin(t *testing.T, ts *httptest.Server, name, email string) *http.Client {
	t.Helper()

	client := newClient(t)

	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/users",
		map[string]string{"name": name, "email": email, "password": "hunter2secret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/login",
		map[string]string{"email": email, "password": "hunter2secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return client
}

func TestSignupLoginMe(t *testing.T) {
	ts := newTestServer(t)
	client := signupAndLogin(t, ts, "Alice", "alice@example.com")

	resp := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	}
	decode(t, resp, &me)
	assert.Equal(t, "Alice", me.Name)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.False(t, me.EmailVerified, "new accounts start unverified")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	signupAndLogin(t, ts, "Alice", "alice@example.com")

	resp := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/api/v1/users",
		map[string]string{"name": "Imposter", "email": "alice@example.com", "password": "hunter2secret"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	signupAndLogin(t, ts, "Alice", "alice@example.com")

	resp := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/api/v1/auth/login",
		map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVerify_InvalidToken(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, newClient(t), http.MethodGet, ts.URL+"/api/v1/users/verify?token=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListsRequireSession(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, newClient(t), http.MethodGet, ts.URL+"/api/v1/todo/lists", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestSharingFlow walks the whole collaboration lifecycle through the real
// router: owner creates a list, a stranger can't see it, becomes a viewer,
// gets promoted to editor, and still can't delete.
func TestSharingFlow(t *testing.T) {
	ts := newTestServer(t)
	owner := signupAndLogin(t, ts, "Owner", "owner@example.com")
	guest := signupAndLogin(t, ts, "Guest", "guest@example.com")

	// Owner creates a list and can read it back.
	resp := doJSON(t, owner, http.MethodPost, ts.URL+"/api/v1/todo/lists",
		map[string]string{"name": "Trip planning"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decode(t, resp, &list)
	require.NotEmpty(t, list.ID)

	listURL := ts.URL + "/api/v1/todo/lists/" + list.ID

	resp = doJSON(t, owner, http.MethodGet, listURL, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The guest has no relationship to the list yet.
	resp = doJSON(t, guest, http.MethodGet, listURL, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Owner finds the guest by email and adds them read-only.
	resp = doJSON(t, owner, http.MethodGet, ts.URL+"/api/v1/users/search?email=guest@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var guestUser struct {
		ID string `json:"id"`
	}
	decode(t, resp, &guestUser)

	resp = doJSON(t, owner, http.MethodPost, listURL+"/collaborators",
		map[string]any{"userId": guestUser.ID, "canEdit": false})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Viewer: read works, writes don't.
	resp = doJSON(t, guest, http.MethodGet, listURL, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, guest, http.MethodPost, listURL+"/items",
		map[string]string{"name": "Book flights"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Collaborator management is owner-only.
	resp = doJSON(t, guest, http.MethodGet, listURL+"/collaborators", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, guest, http.MethodPatch, listURL+"/collaborators/"+guestUser.ID,
		map[string]any{"canEdit": true})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Owner promotes the guest to editor.
	resp = doJSON(t, owner, http.MethodPatch, listURL+"/collaborators/"+guestUser.ID,
		map[string]any{"canEdit": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Editor: item creation works, deletion of the list still doesn't.
	resp = doJSON(t, guest, http.MethodPost, listURL+"/items",
		map[string]string{"name": "Book flights"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, guest, http.MethodDelete, listURL, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The guest now sees the shared list alongside their own.
	resp = doJSON(t, guest, http.MethodGet, ts.URL+"/api/v1/todo/lists", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var visible []struct {
		ID string `json:"id"`
	}
	decode(t, resp, &visible)
	assert.Len(t, visible, 1)

	// Only the owner can delete; items and relationships go with the list,
	// and the now-missing list reads back as 404.
	resp = doJSON(t, owner, http.MethodDelete, listURL, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, owner, http.MethodGet, listURL, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestItemLifecycle exercises item CRUD end to end as the list owner.
func TestItemLifecycle(t *testing.T) {
	ts := newTestServer(t)
	owner := signupAndLogin(t, ts, "Owner", "owner@example.com")

	resp := doJSON(t, owner, http.MethodPost, ts.URL+"/api/v1/todo/lists",
		map[string]string{"name": "Chores"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var list struct {
		ID string `json:"id"`
	}
	decode(t, resp, &list)

	itemsURL := fmt.Sprintf("%s/api/v1/todo/lists/%s/items", ts.URL, list.ID)

	resp = doJSON(t, owner, http.MethodPost, itemsURL,
		map[string]string{"name": "Mow the lawn", "dueDate": "2026-09-15", "status": "todo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, resp, &item)
	assert.Equal(t, "todo", item.Status)

	resp = doJSON(t, owner, http.MethodPut, itemsURL+"/"+item.ID,
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &item)
	assert.Equal(t, "completed", item.Status)

	resp = doJSON(t, owner, http.MethodGet, itemsURL+"?status=completed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []struct {
		ID string `json:"id"`
	}
	decode(t, resp, &items)
	assert.Len(t, items, 1)

	resp = doJSON(t, owner, http.MethodDelete, itemsURL+"/"+item.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, owner, http.MethodGet, itemsURL+"/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
