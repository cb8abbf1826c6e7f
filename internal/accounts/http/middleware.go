package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/pkg/httpx"
)

// AuthnMiddleware resolves the Bearer access token into its user and session.
// A missing header and an invalid token get distinct messages, matching what
// clients key their re-login behaviour on.
func AuthnMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpx.WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httpx.WriteMessage(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			user, sess, err := sessions.ResolveAccess(r.Context(), token)
			if err != nil {
				httpx.WriteMessage(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			ctx := context.WithValue(r.Context(), httpx.CtxKeyUserID, user.ID)
			ctx = context.WithValue(ctx, httpx.CtxKeySessionID, sess.ID)
			ctx = context.WithValue(ctx, httpx.CtxKeySuperadmin, user.IsSuperadmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperadmin gates a handler on the superadmin flag set by
// AuthnMiddleware. It must run after it in the chain.
func RequireSuperadmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !httpx.IsSuperadmin(r.Context()) {
				httpx.WriteMessage(w, http.StatusForbidden, "You do not have permission!")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
