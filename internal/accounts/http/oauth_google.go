package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/pkg/cryptox"
	"github.com/halcyonlabs/accounts/pkg/httpx"
	"github.com/halcyonlabs/accounts/pkg/slogx"
	"golang.org/x/oauth2"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleOAuthHandler runs the Google authorization-code flow and hands the
// resulting profile to the OAuth service.
type GoogleOAuthHandler struct {
	OAuthService *service.OAuthService
	Config       *oauth2.Config
	CookieSecure bool
	RefreshTTL   time.Duration

	// UserInfoURL overrides the Google endpoint, for tests.
	UserInfoURL string
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// HandleStart godoc
//
//	@Summary		Google Sign-In Endpoint
//	@Description	Redirect to Google's authorization server with a fresh CSRF state
//	@Tags			Auth
//	@Success		302	"redirect to Google"
//	@Router			/auth/google [get].
func (h *GoogleOAuthHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.Config.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		Google Callback Endpoint
//	@Description	Complete the code exchange, upsert the account and provider link,
//	@Description	and issue a session pair. The refresh token travels as a cookie.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope	"status_code, message, access_token, data"
//	@Failure		400	{object}	httpx.Envelope	"exchange or profile failure"
//	@Failure		401	{object}	httpx.Envelope	"state mismatch"
//	@Router			/auth/callback/google [get].
func (h *GoogleOAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		httpx.WriteMessage(w, http.StatusUnauthorized,
			"CSRF Warning! State not equal in request and response")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Authentication failed")
		return
	}

	token, err := h.Config.Exchange(ctx, code)
	if err != nil {
		log.Error("google code exchange failed", slog.Any("error", err))
		httpx.WriteMessage(w, http.StatusBadRequest, "Authentication failed")
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil || info.Email == "" {
		log.Error("google userinfo fetch failed", slog.Any("error", err))
		httpx.WriteMessage(w, http.StatusBadRequest, "Authentication failed")
		return
	}

	user, pair, err := h.OAuthService.SignIn(ctx, domain.OAuthProfile{
		Provider:      "google",
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
	}, token.AccessToken, token.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.CookieSecure, h.RefreshTTL)
	httpx.WriteEnvelope(w, http.StatusOK, httpx.Envelope{
		Message:     "Authentication was successful",
		AccessToken: pair.AccessToken,
		Data:        user.Project(),
	})
}

func (h *GoogleOAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	url := h.UserInfoURL
	if url == "" {
		url = googleUserInfoURL
	}

	resp, err := h.Config.Client(ctx, token).Get(url)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	return info, nil
}
