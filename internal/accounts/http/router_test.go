package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/halcyonlabs/accounts/pkg/cryptox"
	"github.com/halcyonlabs/accounts/pkg/idx"
	"github.com/halcyonlabs/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// recordingMailer captures dispatched tokens for the flow tests.
type recordingMailer struct {
	mu           sync.Mutex
	verifyTokens map[string]string
	resetTokens  map[string]string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{
		verifyTokens: make(map[string]string),
		resetTokens:  make(map[string]string),
	}
}

func (m *recordingMailer) SendAccountVerification(user domain.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyTokens[user.Email] = token
	return nil
}

func (m *recordingMailer) SendActivationConfirmation(domain.User) error { return nil }

func (m *recordingMailer) SendPasswordReset(user domain.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[user.Email] = token
	return nil
}

func (m *recordingMailer) verifyToken(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.verifyTokens[email]
	return tok, ok
}

type testServer struct {
	router   *Router
	store    store.Store
	sessions *service.SessionService
	mailer   *recordingMailer
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerTTL(t, jwtx.DefaultRefreshTokenTTL)
}

func newTestServerTTL(t *testing.T, refreshTTL time.Duration) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec([]byte("router-test-secret"), "accounts-test")
	require.NoError(t, err)

	sessions := service.NewSessionService(st, codec)
	sessions.RefreshTTL = refreshTTL
	mailer := newRecordingMailer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter("test", st, logger, false)
	router.AuthService = service.NewAuthService(st, sessions, mailer)
	router.SessionService = sessions
	router.UserService = service.NewUserService(st)
	router.OAuthService = service.NewOAuthService(st, sessions)
	router.ApplyRoutes()

	return &testServer{router: router, store: st, sessions: sessions, mailer: mailer}
}

// do runs a JSON request through the full middleware chain.
func (ts *testServer) do(t *testing.T, method, path string, body any, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if decorate != nil {
		decorate(req)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	StatusCode  int               `json:"status_code"`
	Message     string            `json:"message"`
	AccessToken string            `json:"access_token"`
	Data        json.RawMessage   `json:"data"`
	Errors      map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatal("no refresh cookie in response")
	return nil
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestAccountLifecycleFlow(t *testing.T) {
	ts := newTestServer(t)
	const email = "flow@example.com"
	const password = "Str0ngPass!"

	// Register.
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":      email,
		"password":   password,
		"first_name": "Flow",
		"last_name":  "Tester",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, fmt.Sprintf("User %s created successfully", email), env.Message)
	require.NotEmpty(t, env.AccessToken)
	cookie := refreshCookie(t, rec)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteNoneMode, cookie.SameSite)

	// Verify with the emailed token.
	require.Eventually(t, func() bool {
		_, ok := ts.mailer.verifyToken(email)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	token, _ := ts.mailer.verifyToken(email)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/verify", map[string]string{
		"email": email,
		"token": token,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, fmt.Sprintf("User %s account successfully activated.", email),
		decodeEnvelope(t, rec).Message)

	// Login.
	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	require.Equal(t, "Login successful", env.Message)
	access := env.AccessToken
	require.NotEmpty(t, access)
	loginCookie := refreshCookie(t, rec)

	// Current user.
	rec = ts.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer(access))
	require.Equal(t, http.StatusOK, rec.Code)
	var projection domain.Projection
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &projection))
	require.Equal(t, email, projection.Email)

	// Refresh rotates the session.
	rec = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(loginCookie)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	require.Equal(t, "Refresh successful", env.Message)
	require.NotEmpty(t, env.AccessToken)
	require.NotEqual(t, access, env.AccessToken)

	// The spent refresh token is dead.
	rec = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(loginCookie)
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid request.", decodeEnvelope(t, rec).Message)

	// So is the access token the rotation replaced.
	rec = ts.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer(access))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Not authorized", decodeEnvelope(t, rec).Message)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":      "not-an-email",
		"password":   "weakpassword",
		"first_name": "Jo",
		"last_name":  "Tester",
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, "Validation failed", env.Message)
	require.Equal(t, "Must be a valid email address", env.Errors["email"])
	require.Equal(t, "password must include at least one uppercase letter", env.Errors["password"])
	require.Equal(t, "Must be at least 3 characters long", env.Errors["first_name"])
}

func TestAuthnResponses(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing header", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users/me", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Not authenticated", decodeEnvelope(t, rec).Message)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer("garbage"))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Not authorized", decodeEnvelope(t, rec).Message)
	})

	t.Run("missing refresh cookie", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid request.", decodeEnvelope(t, rec).Message)
	})
}

// seedLogin creates a user row directly and returns a live access token.
func (ts *testServer) seedLogin(t *testing.T, email string, superadmin bool) (domain.User, string) {
	t.Helper()

	hash, err := cryptox.HashPassword("Str0ngPass!")
	require.NoError(t, err)

	now := time.Now().UTC().Add(-time.Minute)
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Seed",
		LastName:     "User",
		IsActive:     true,
		IsVerified:   true,
		IsSuperadmin: superadmin,
		VerifiedAt:   &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, ts.store.Users().CreateUser(t.Context(), user))

	pair, err := ts.sessions.Issue(t.Context(), user)
	require.NoError(t, err)
	return user, pair.AccessToken
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)

	target, _ := ts.seedLogin(t, "target@example.com", false)
	_, memberToken := ts.seedLogin(t, "member@example.com", false)
	_, adminToken := ts.seedLogin(t, "admin@example.com", true)

	t.Run("non-superadmin is forbidden", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users", nil, bearer(memberToken))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "You do not have permission!", decodeEnvelope(t, rec).Message)
	})

	t.Run("fetch by id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users/"+target.ID, nil, bearer(adminToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var projection domain.Projection
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &projection))
		require.Equal(t, target.Email, projection.Email)
	})

	t.Run("fetch unknown id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users/01JMISSINGMISSINGMISSING00", nil, bearer(adminToken))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "User does not exist", decodeEnvelope(t, rec).Message)
	})

	t.Run("list with page-count total", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users?page=1&per_page=2", nil, bearer(adminToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var page userPage
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &page))
		require.Len(t, page.Users, 2)
		// total reflects the returned page's row count, not the full
		// matching set
		require.Equal(t, 2, page.Total)
	})

	t.Run("list rejects non-boolean filters", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users?is_active=banana", nil, bearer(adminToken))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Equal(t, "Must be a boolean", decodeEnvelope(t, rec).Errors["is_active"])
	})

	t.Run("empty page message", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/users?page=50&per_page=20", nil, bearer(adminToken))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "No User(s) found", decodeEnvelope(t, rec).Message)
	})

	t.Run("update and delete", func(t *testing.T) {
		rec := ts.do(t, http.MethodPatch, "/api/v1/users/"+target.ID, map[string]string{
			"first_name": "Renamed",
		}, bearer(adminToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var projection domain.Projection
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &projection))
		require.Equal(t, "Renamed", projection.FirstName)

		rec = ts.do(t, http.MethodDelete, "/api/v1/users/"+target.ID, nil, bearer(adminToken))
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.do(t, http.MethodDelete, "/api/v1/users/"+target.ID, nil, bearer(adminToken))
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, "User is already deleted", decodeEnvelope(t, rec).Message)
	})
}

func TestSelfUpdate(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedLogin(t, "selfupd@example.com", false)

	rec := ts.do(t, http.MethodPatch, "/api/v1/users", map[string]string{
		"last_name": "Changed",
	}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	var projection domain.Projection
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &projection))
	require.Equal(t, "Changed", projection.LastName)
}

func TestForgotResetFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.seedLogin(t, "reset-flow@example.com", false)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{
		"email": "reset-flow@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Please check your mail to change password", decodeEnvelope(t, rec).Message)

	t.Run("unknown email gets the same message", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{
			"email": "ghost@example.com",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Please check your mail to change password", decodeEnvelope(t, rec).Message)
	})

	require.Eventually(t, func() bool {
		ts.mailer.mu.Lock()
		defer ts.mailer.mu.Unlock()
		_, ok := ts.mailer.resetTokens["reset-flow@example.com"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	ts.mailer.mu.Lock()
	token := ts.mailer.resetTokens["reset-flow@example.com"]
	ts.mailer.mu.Unlock()

	t.Run("bad token gets the window message", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/api/v1/auth/reset-password", map[string]string{
			"email":    "reset-flow@example.com",
			"token":    "bogus",
			"password": "NewPassw0rd!",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid window", decodeEnvelope(t, rec).Message)
	})

	rec = ts.do(t, http.MethodPut, "/api/v1/auth/reset-password", map[string]string{
		"email":    "reset-flow@example.com",
		"token":    token,
		"password": "NewPassw0rd!",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Your password has been updated.", decodeEnvelope(t, rec).Message)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "reset-flow@example.com",
		"password": "NewPassw0rd!",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshCookieFollowsConfiguredTTL(t *testing.T) {
	const ttl = 12 * time.Hour
	ts := newTestServerTTL(t, ttl)
	ts.seedLogin(t, "ttl@example.com", false)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ttl@example.com",
		"password": "Str0ngPass!",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c := refreshCookie(t, rec)
	require.Equal(t, int(ttl/time.Second), c.MaxAge)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)

	rec = ts.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
