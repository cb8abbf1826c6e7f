package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	httpapi "github.com/halcyonlabs/accounts/internal/accounts/http"
	"github.com/halcyonlabs/accounts/internal/accounts/mail"
	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/halcyonlabs/accounts/pkg/jwtx"
	"github.com/halcyonlabs/accounts/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the accounts service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	codec  *jwtx.Codec
	mailer mail.Mailer

	// Services
	sessionService      *service.SessionService
	authService         *service.AuthService
	userService         *service.UserService
	oauthService        *service.OAuthService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accounts-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := jwtx.NewCodec([]byte(cfg.SecretKey), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accounts service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initMailer sets up SMTP delivery, or a no-op sender when SMTP is not
// configured so local development works without a mail server.
func (app *Application) initMailer() error {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP not configured, outbound mail disabled")
		app.mailer = mail.NopMailer{}
		return nil
	}

	mailer, err := mail.NewSMTPMailer(mail.Config{
		Host:        app.cfg.SMTPHost,
		Port:        app.cfg.SMTPPort,
		Username:    app.cfg.SMTPUsername,
		Password:    app.cfg.SMTPPassword,
		From:        app.cfg.MailFrom,
		AppName:     app.cfg.AppName,
		FrontendURL: app.cfg.FrontendURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}
	app.mailer = mailer
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:      app.db,
		Codec:      app.codec,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}
	app.authService = service.NewAuthService(app.db, app.sessionService, app.mailer)
	app.userService = service.NewUserService(app.db)
	app.oauthService = service.NewOAuthService(app.db, app.sessionService)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.SessionRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger, app.cfg.CookieSecure)

	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.OAuthService = app.oauthService
	router.GoogleOAuth = app.googleOAuthConfig()
	router.FrontendBaseURL = app.cfg.FrontendURL
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// googleOAuthConfig returns nil when Google sign-in is not configured, which
// disables its routes.
func (app *Application) googleOAuthConfig() *oauth2.Config {
	if app.cfg.GoogleClientID == "" || app.cfg.GoogleClientSecret == "" {
		app.logger.Warn("Google OAuth not configured, sign-in with Google disabled")
		return nil
	}

	return &oauth2.Config{
		ClientID:     app.cfg.GoogleClientID,
		ClientSecret: app.cfg.GoogleClientSecret,
		RedirectURL:  app.cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}
