package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/halcyonlabs/accounts/pkg/jwtx"
)

type Config struct {
	SecretKey string // Required: HMAC secret for signing tokens
	Issuer    string // Optional: issuer claim for tokens (default: halcyon-accounts)

	DatabaseFile string // Optional: path to SQLite database file (default: ./accounts.db)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token and session lifetime (default: 720h)
	CookieSecure    bool          // Optional: set Secure on auth cookies (default: true)

	SMTPHost     string // Optional: mail is disabled when unset
	SMTPPort     int    // Optional: SMTP port (default: 587)
	SMTPUsername string
	SMTPPassword string
	MailFrom     string // Optional: From address (default: SMTP username)
	AppName      string // Optional: product name used in mail subjects (default: Halcyon Accounts)
	FrontendURL  string // Optional: base URL for emailed links (default: http://localhost:3000)

	GoogleClientID     string // Optional: Google sign-in is disabled when unset
	GoogleClientSecret string
	GoogleRedirectURL  string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	SessionRetention     time.Duration // How long expired session rows are kept (default: 720h)
}

func LoadConfig() Config {
	// Local development keeps its settings in .env; absence is fine.
	_ = godotenv.Load()

	return Config{
		SecretKey: os.Getenv("SECRET_KEY"),
		Issuer:    getEnvOrDefault("JWT_ISSUER", "halcyon-accounts"),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "accounts.db"),

		AccessTokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		CookieSecure:    getEnvBoolOrDefault("COOKIE_SECURE", true),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", os.Getenv("SMTP_USERNAME")),
		AppName:      getEnvOrDefault("APP_NAME", "Halcyon Accounts"),
		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		SessionRetention:     getEnvDurationOrDefault("SESSION_RETENTION", 30*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
