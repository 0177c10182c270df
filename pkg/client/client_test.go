package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": "nope"},
	})
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Identifier string `json:"identifier"`
			Secret     string `json:"secret"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Identifier == "admin@example.com" && req.Secret == "admin123" {
			writeData(w, map[string]any{
				"kind": "STAFF",
				"staff": map[string]any{
					"id": "admin-1", "name": "Admin",
					"email": "admin@example.com", "role": "administrador",
				},
				"auth": map[string]any{"token": "issued-token"},
			})
			return
		}
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	})
	return httptest.NewServer(mux)
}

func TestLoginStoresSession(t *testing.T) {
	server := newLoginServer(t)
	defer server.Close()

	store := NewMemoryStore()
	c := New(Options{BaseURL: server.URL, Store: store})

	snap, err := c.Login(context.Background(), "admin@example.com", "admin123")
	require.NoError(t, err)

	assert.Equal(t, KindStaff, snap.Kind)
	require.NotNil(t, snap.Staff)
	assert.Equal(t, "administrador", snap.Staff.Role)
	assert.Equal(t, "Bearer issued-token", c.Session().AuthHeader())
	assert.Equal(t, StateAuthenticated, c.Session().State())

	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "issued-token", persisted.Token)
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	server := newLoginServer(t)
	defer server.Close()

	c := New(Options{BaseURL: server.URL})

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.False(t, apiErr.IsAuthFailure(), "bad credentials are not a session teardown signal")

	assert.Equal(t, StateUnauthenticated, c.Session().State())
	assert.Empty(t, c.Session().AuthHeader())
}

func TestLogoutClearsHeader(t *testing.T) {
	server := newLoginServer(t)
	defer server.Close()

	store := NewMemoryStore()
	c := New(Options{BaseURL: server.URL, Store: store})

	_, err := c.Login(context.Background(), "admin@example.com", "admin123")
	require.NoError(t, err)
	c.Logout()

	assert.Empty(t, c.Session().AuthHeader())
	assert.Equal(t, StateUnauthenticated, c.Session().State())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

// Any endpoint answering with a token-failure code tears the session
// down globally and notifies, regardless of which call hit it.
func TestAuthFailureResponseTearsDownSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /students", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "INVALID_OR_EXPIRED_TOKEN")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	notifier := &recordingNotifier{}
	c := New(Options{BaseURL: server.URL, Notifier: notifier})
	require.NoError(t, c.Session().Begin(staffSnapshot()))

	err := c.Do(context.Background(), http.MethodGet, "/students", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuthFailure())

	assert.Equal(t, StateUnauthenticated, c.Session().State())
	assert.Empty(t, c.Session().AuthHeader())
	assert.Equal(t, 1, notifier.count())
}

// A domain-level 403 must not destroy the session: the principal is
// authenticated, just not allowed.
func TestForbiddenResponseKeepsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /staff", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusForbidden, "FORBIDDEN")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	notifier := &recordingNotifier{}
	c := New(Options{BaseURL: server.URL, Notifier: notifier})
	require.NoError(t, c.Session().Begin(staffSnapshot()))

	err := c.Do(context.Background(), http.MethodGet, "/staff", nil, nil)
	require.Error(t, err)

	assert.Equal(t, StateAuthenticated, c.Session().State())
	assert.Zero(t, notifier.count())
}

func TestDoAttachesAuthHeader(t *testing.T) {
	var seen string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		writeData(w, map[string]any{"id": "student-1"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(Options{BaseURL: server.URL})
	require.NoError(t, c.Session().Begin(studentSnapshot()))

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/me", nil, &out))
	assert.Equal(t, "Bearer student-token", seen)
	assert.Equal(t, "student-1", out.ID)
}

func newVerifyServer(valid bool) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/verify-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"valid": valid})
	})
	return httptest.NewServer(mux)
}

func TestRestoreWithNoPersistedSession(t *testing.T) {
	server := newVerifyServer(true)
	defer server.Close()

	c := New(Options{BaseURL: server.URL, Store: NewMemoryStore()})
	state := c.Restore(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	assert.Empty(t, c.Session().AuthHeader())
}

func TestRestoreConfirmedByServer(t *testing.T) {
	server := newVerifyServer(true)
	defer server.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(staffSnapshot()))

	c := New(Options{BaseURL: server.URL, Store: store})
	state := c.Restore(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "Bearer staff-token", c.Session().AuthHeader())
	assert.Equal(t, KindStaff, c.Session().Kind())
}

func TestRestoreRejectedByServer(t *testing.T) {
	server := newVerifyServer(false)
	defer server.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(staffSnapshot()))

	c := New(Options{BaseURL: server.URL, Store: store})
	state := c.Restore(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	assert.Empty(t, c.Session().AuthHeader())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted, "rejected token must not survive in the store")
}

// An unreachable server is not a verdict on the token: the session is
// kept and the first real request settles it.
func TestRestoreRetainsSessionOnNetworkFailure(t *testing.T) {
	server := newVerifyServer(true)
	server.Close() // nothing is listening

	store := NewMemoryStore()
	require.NoError(t, store.Save(staffSnapshot()))

	c := New(Options{BaseURL: server.URL, Store: store})
	state := c.Restore(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "Bearer staff-token", c.Session().AuthHeader())

	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
}

func TestNonEnvelopeErrorResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(Options{BaseURL: server.URL})
	err := c.Do(context.Background(), http.MethodGet, "/broken", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Code)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
}
