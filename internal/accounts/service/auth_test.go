package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/halcyonlabs/accounts/pkg/cryptox"
	"github.com/halcyonlabs/accounts/pkg/idx"
	"github.com/halcyonlabs/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// captureMailer records outgoing mail so tests can assert on dispatched
// tokens. Sends happen off the request goroutine, so access is locked.
type captureMailer struct {
	mu            sync.Mutex
	verifyTokens  map[string]string
	resetTokens   map[string]string
	confirmations []string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{
		verifyTokens: make(map[string]string),
		resetTokens:  make(map[string]string),
	}
}

func (m *captureMailer) SendAccountVerification(user domain.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyTokens[user.Email] = token
	return nil
}

func (m *captureMailer) SendActivationConfirmation(user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, user.Email)
	return nil
}

func (m *captureMailer) SendPasswordReset(user domain.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[user.Email] = token
	return nil
}

func (m *captureMailer) verifyToken(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.verifyTokens[email]
	return tok, ok
}

func (m *captureMailer) resetToken(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.resetTokens[email]
	return tok, ok
}

type testEnv struct {
	store    store.Store
	sessions *SessionService
	auth     *AuthService
	users    *UserService
	mailer   *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec([]byte("test-signing-secret"), "accounts-test")
	require.NoError(t, err)

	sessions := NewSessionService(st, codec)
	mailer := newCaptureMailer()
	return &testEnv{
		store:    st,
		sessions: sessions,
		auth:     NewAuthService(st, sessions, mailer),
		users:    NewUserService(st),
		mailer:   mailer,
	}
}

// seedUser inserts a user directly. UpdatedAt sits a minute in the past so a
// state change inside the test always lands in a different token window.
func (e *testEnv) seedUser(t *testing.T, email, password string, mutate func(*domain.User)) domain.User {
	t.Helper()

	now := time.Now().UTC().Add(-time.Minute)
	user := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if password != "" {
		hash, err := cryptox.HashPassword(password)
		require.NoError(t, err)
		user.PasswordHash = hash
	}
	if mutate != nil {
		mutate(&user)
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) seedVerifiedUser(t *testing.T, email, password string) domain.User {
	t.Helper()
	return e.seedUser(t, email, password, func(u *domain.User) {
		u.IsActive = true
		u.IsVerified = true
		verified := u.CreatedAt
		u.VerifiedAt = &verified
	})
}

func actionToken(t *testing.T, user domain.User, purpose string) string {
	t.Helper()
	tok, err := cryptox.HashPassword(user.ActionContext(purpose))
	require.NoError(t, err)
	return tok
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, pair, err := env.auth.Register(ctx, "alice@example.com", "Str0ngPass!", "Alice", "Smith")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.False(t, user.IsVerified)
	require.False(t, user.IsActive)
	require.Nil(t, user.VerifiedAt)

	t.Run("issues a working pair immediately", func(t *testing.T) {
		require.NotEmpty(t, pair.AccessToken)
		resolved, _, err := env.sessions.ResolveAccess(ctx, pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, resolved.ID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, _, err := env.auth.Register(ctx, "alice@example.com", "Str0ngPass!", "Alice", "Smith")
		require.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("dispatches a working verification token", func(t *testing.T) {
		require.Eventually(t, func() bool {
			_, ok := env.mailer.verifyToken("alice@example.com")
			return ok
		}, 2*time.Second, 10*time.Millisecond)

		token, _ := env.mailer.verifyToken("alice@example.com")
		verified, err := env.auth.Verify(ctx, "alice@example.com", token)
		require.NoError(t, err)
		require.True(t, verified.IsVerified)
		require.True(t, verified.IsActive)
		require.NotNil(t, verified.VerifiedAt)
	})
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "bob@example.com", "Str0ngPass!", nil)
	token := actionToken(t, user, domain.PurposeVerifyAccount)

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.auth.Verify(ctx, "nobody@example.com", token)
		require.ErrorIs(t, err, ErrLinkNotValid)
	})

	t.Run("bad token", func(t *testing.T) {
		bad := actionToken(t, user, domain.PurposeForgotPassword)
		_, err := env.auth.Verify(ctx, "bob@example.com", bad)
		require.ErrorIs(t, err, ErrLinkExpired)
	})

	t.Run("activates and retires the token", func(t *testing.T) {
		verified, err := env.auth.Verify(ctx, "bob@example.com", token)
		require.NoError(t, err)
		require.True(t, verified.IsVerified)
		require.True(t, verified.IsActive)

		// Verification bumped UpdatedAt, so the same link is dead now.
		_, err = env.auth.Verify(ctx, "bob@example.com", token)
		require.ErrorIs(t, err, ErrLinkExpired)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedVerifiedUser(t, "carol@example.com", "Str0ngPass!")

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := env.auth.Login(ctx, "nobody@example.com", "Str0ngPass!")
		require.ErrorIs(t, err, ErrEmailNotRegistered)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := env.auth.Login(ctx, "carol@example.com", "WrongPass1!")
		require.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("passwordless account", func(t *testing.T) {
		env.seedVerifiedUser(t, "sso-only@example.com", "")
		_, _, err := env.auth.Login(ctx, "sso-only@example.com", "anything")
		require.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unverified account", func(t *testing.T) {
		env.seedUser(t, "pending@example.com", "Str0ngPass!", nil)
		_, _, err := env.auth.Login(ctx, "pending@example.com", "Str0ngPass!")
		require.ErrorIs(t, err, ErrNotVerified)
	})

	t.Run("deactivated account", func(t *testing.T) {
		env.seedUser(t, "banned@example.com", "Str0ngPass!", func(u *domain.User) {
			u.IsVerified = true
			verified := u.CreatedAt
			u.VerifiedAt = &verified
		})
		_, _, err := env.auth.Login(ctx, "banned@example.com", "Str0ngPass!")
		require.ErrorIs(t, err, ErrDeactivated)
	})

	t.Run("success issues a pair", func(t *testing.T) {
		user, pair, err := env.auth.Login(ctx, "carol@example.com", "Str0ngPass!")
		require.NoError(t, err)
		require.Equal(t, "carol@example.com", user.Email)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Greater(t, pair.ExpiresIn, 0)
	})

	t.Run("fresh login supersedes earlier sessions", func(t *testing.T) {
		_, first, err := env.auth.Login(ctx, "carol@example.com", "Str0ngPass!")
		require.NoError(t, err)
		_, _, err = env.sessions.ResolveAccess(ctx, first.AccessToken)
		require.NoError(t, err)

		_, second, err := env.auth.Login(ctx, "carol@example.com", "Str0ngPass!")
		require.NoError(t, err)

		_, _, err = env.sessions.ResolveAccess(ctx, first.AccessToken)
		require.ErrorIs(t, err, ErrSessionNotFound)
		_, _, err = env.sessions.ResolveAccess(ctx, second.AccessToken)
		require.NoError(t, err)
	})
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedVerifiedUser(t, "dave@example.com", "Str0ngPass!")
	_, pair, err := env.auth.Login(ctx, "dave@example.com", "Str0ngPass!")
	require.NoError(t, err)

	rotated, err := env.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, pair.AccessToken, rotated.AccessToken)

	t.Run("spent refresh token is rejected", func(t *testing.T) {
		_, err := env.auth.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("rotation kills the old access token", func(t *testing.T) {
		_, _, err := env.sessions.ResolveAccess(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrSessionNotFound)
		_, _, err = env.sessions.ResolveAccess(ctx, rotated.AccessToken)
		require.NoError(t, err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := env.auth.Refresh(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestForgotPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		require.NoError(t, env.auth.ForgotPassword(ctx, "nobody@example.com"))
		_, ok := env.mailer.resetToken("nobody@example.com")
		require.False(t, ok)
	})

	t.Run("unverified account", func(t *testing.T) {
		env.seedUser(t, "pending@example.com", "Str0ngPass!", nil)
		require.ErrorIs(t, env.auth.ForgotPassword(ctx, "pending@example.com"), ErrNotVerified)
	})

	t.Run("dispatches a reset token", func(t *testing.T) {
		env.seedVerifiedUser(t, "erin@example.com", "Str0ngPass!")
		require.NoError(t, env.auth.ForgotPassword(ctx, "erin@example.com"))
		require.Eventually(t, func() bool {
			_, ok := env.mailer.resetToken("erin@example.com")
			return ok
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedVerifiedUser(t, "frank@example.com", "OldPassw0rd!")
	token := actionToken(t, user, domain.PurposeForgotPassword)

	t.Run("unknown email", func(t *testing.T) {
		err := env.auth.ResetPassword(ctx, "nobody@example.com", token, "NewPassw0rd!")
		require.ErrorIs(t, err, ErrResetNotAllowed)
	})

	t.Run("bad token", func(t *testing.T) {
		bad := actionToken(t, user, domain.PurposeVerifyAccount)
		err := env.auth.ResetPassword(ctx, "frank@example.com", bad, "NewPassw0rd!")
		require.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("updates the password and retires the token", func(t *testing.T) {
		require.NoError(t, env.auth.ResetPassword(ctx, "frank@example.com", token, "NewPassw0rd!"))

		_, _, err := env.auth.Login(ctx, "frank@example.com", "OldPassw0rd!")
		require.ErrorIs(t, err, ErrBadCredentials)
		_, _, err = env.auth.Login(ctx, "frank@example.com", "NewPassw0rd!")
		require.NoError(t, err)

		err = env.auth.ResetPassword(ctx, "frank@example.com", token, "AnotherPass1!")
		require.ErrorIs(t, err, ErrInvalidWindow)
	})
}
