package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// googleBackend fakes the provider's token and userinfo endpoints so the
// callback handler can run its full exchange against a local server.
func googleBackend(t *testing.T, info googleUserInfo) (*oauth2.Config, string) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"prov-access","refresh_token":"prov-refresh","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(info))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost/api/v1/auth/callback/google",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		},
	}
	return cfg, srv.URL + "/userinfo"
}

func (ts *testServer) googleCallback(t *testing.T, info googleUserInfo, state, cookieState string) *httptest.ResponseRecorder {
	t.Helper()

	cfg, userInfoURL := googleBackend(t, info)
	h := &GoogleOAuthHandler{
		OAuthService: ts.router.OAuthService,
		Config:       cfg,
		UserInfoURL:  userInfoURL,
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/auth/callback/google?state="+state+"&code=test-code", nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: cookieState})
	}

	rec := httptest.NewRecorder()
	h.HandleCallback(rec, req)
	return rec
}

func TestGoogleCallback(t *testing.T) {
	ts := newTestServer(t)

	profile := googleUserInfo{
		Sub:           "google-sub-1",
		Email:         "sso@example.com",
		EmailVerified: true,
		GivenName:     "Grace",
		FamilyName:    "Hopper",
	}

	t.Run("state mismatch is rejected", func(t *testing.T) {
		rec := ts.googleCallback(t, profile, "attacker-state", "legit-state")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t,
			"CSRF Warning! State not equal in request and response",
			decodeEnvelope(t, rec).Message)
	})

	t.Run("verified profile signs in with a session pair", func(t *testing.T) {
		rec := ts.googleCallback(t, profile, "st", "st")
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		require.Equal(t, "Authentication was successful", env.Message)
		require.NotEmpty(t, env.AccessToken)
		require.NotEmpty(t, refreshCookie(t, rec).Value)

		user, err := ts.store.Users().GetUserByEmail(t.Context(), "sso@example.com")
		require.NoError(t, err)
		require.True(t, user.IsVerified)
	})

	t.Run("unverified provider email is rejected", func(t *testing.T) {
		unproven := profile
		unproven.Email = "unproven@example.com"
		unproven.EmailVerified = false

		rec := ts.googleCallback(t, unproven, "st", "st")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Authentication failed", decodeEnvelope(t, rec).Message)

		_, err := ts.store.Users().GetUserByEmail(t.Context(), "unproven@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
