package domain

import "time"

// OAuthLink ties an account to an external identity provider. One link per
// user; re-authenticating refreshes the stored provider tokens.
type OAuthLink struct {
	ID           string
	UserID       string
	Provider     string
	Subject      string
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OAuthProfile is the identity returned by a provider's userinfo endpoint.
type OAuthProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}
