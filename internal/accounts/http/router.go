package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/pkg/httpx"
	"github.com/halcyonlabs/accounts/pkg/slogx"
	"github.com/halcyonlabs/accounts/pkg/validate"
	"golang.org/x/oauth2"

	_ "github.com/halcyonlabs/accounts/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	validator    *validate.Validator
	cookieSecure bool

	store           store.Store
	AuthService     *service.AuthService
	SessionService  *service.SessionService
	UserService     *service.UserService
	OAuthService    *service.OAuthService
	GoogleOAuth     *oauth2.Config // Optional: Google sign-in is disabled when nil
	FrontendBaseURL string
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	cookieSecure bool,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		validator:    validate.New(),
		cookieSecure: cookieSecure,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerGoogleOAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Halcyon Accounts Service API
//	@version		0.1.0
//	@description	User account and authentication service with JWT access tokens,
//	@description	rotating refresh sessions and email-driven account flows.
//
//	@contact.name				Halcyon Labs
//	@contact.url				https://github.com/halcyonlabs/accounts
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:  r.AuthService,
		Validator:    r.validator,
		CookieSecure: r.cookieSecure,
		RefreshTTL:   r.SessionService.RefreshTTL,
	}

	// Credential endpoints - strict rate limit by IP (abuse targets)
	r.Mux.Handle("POST /api/v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("PUT /api/v1/auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/refresh - moderate rate limit (legitimate clients poll this)
	r.Mux.Handle("POST /api/v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		UserService: r.UserService,
		Validator:   r.validator,
	}
	authn := AuthnMiddleware(r.SessionService)

	// Self-service endpoints - lenient limit by user
	r.Mux.Handle("GET /api/v1/users/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			authn,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /api/v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateMe),
			authn,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Administrative endpoints - superadmin only, moderate limit by user
	r.Mux.Handle("GET /api/v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			authn,
			RequireSuperadmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			authn,
			RequireSuperadmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /api/v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			authn,
			RequireSuperadmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			authn,
			RequireSuperadmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerGoogleOAuth() {
	if r.GoogleOAuth == nil {
		return
	}

	h := &GoogleOAuthHandler{
		OAuthService: r.OAuthService,
		Config:       r.GoogleOAuth,
		CookieSecure: r.cookieSecure,
		RefreshTTL:   r.SessionService.RefreshTTL,
	}

	r.Mux.Handle("GET /api/v1/auth/google",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/auth/callback/google",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
