package http

import (
	"net/http"
	"time"

	"github.com/halcyonlabs/accounts/pkg/jwtx"
)

// refreshCookieName is where the refresh token travels. The token is never
// part of a JSON response body.
const refreshCookieName = "refresh_token"

// setRefreshCookie installs the refresh token as a cross-site HttpOnly
// cookie scoped to the whole host. The cookie must die with the session
// row, so ttl is the same refresh TTL the sessions were issued with.
func setRefreshCookie(w http.ResponseWriter, token string, secure bool, ttl time.Duration) {
	if ttl <= 0 {
		ttl = jwtx.DefaultRefreshTokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// refreshTokenFromRequest reads the refresh cookie, if present.
func refreshTokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(refreshCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
