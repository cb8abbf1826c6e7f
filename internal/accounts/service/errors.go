package service

import "errors"

// Sentinel errors returned by the services. The HTTP layer maps each one to
// its outward status code and message.
var (
	ErrEmailExists        = errors.New("email_exists")
	ErrLinkNotValid       = errors.New("link_not_valid")
	ErrLinkExpired        = errors.New("link_expired")
	ErrEmailNotRegistered = errors.New("email_not_registered")
	ErrBadCredentials     = errors.New("bad_credentials")
	ErrNotVerified        = errors.New("not_verified")
	ErrDeactivated        = errors.New("deactivated")
	ErrInvalidRefresh     = errors.New("invalid_refresh")
	ErrResetNotAllowed    = errors.New("reset_not_allowed")
	ErrInvalidWindow      = errors.New("invalid_window")
	ErrEmailTaken         = errors.New("email_taken")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrProviderUnverified = errors.New("provider_email_unverified")
)
