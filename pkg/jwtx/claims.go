// Package jwtx signs and verifies the HS256 tokens issued by the accounts
// service. Access and refresh tokens carry different custom claims but share
// the same registered-claim handling and the same uniform failure mode.
package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. These provide sensible security defaults but
// can be overridden per-deployment via configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// AccessClaims are the claims carried by an access token. Custom fields use
// single-letter JSON keys to keep the token compact; identifier-like values
// are obfuscated before being placed here.
type AccessClaims struct {
	jwt.RegisteredClaims

	// AccessKey ties the token to one session row. A token whose key no
	// longer matches a live session is dead even if its signature and
	// expiry are fine.
	AccessKey string `json:"a"`

	// SessionRef is the obfuscated session identifier.
	SessionRef string `json:"r"`

	// NameRef is the obfuscated last name of the user, carried so the
	// frontend can greet without a profile round trip.
	NameRef string `json:"n,omitempty"`
}

// RefreshClaims are the claims carried by a refresh token. The refresh key
// identifies the session row to rotate; the access key must match the same
// row, binding the pair together.
type RefreshClaims struct {
	jwt.RegisteredClaims

	RefreshKey string `json:"t"`
	AccessKey  string `json:"a"`
}

// NewAccessClaims builds minimally-correct access claims.
func NewAccessClaims(subject, accessKey, sessionRef, nameRef, issuer string, ttl time.Duration, now time.Time) AccessClaims {
	return AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccessKey:  accessKey,
		SessionRef: sessionRef,
		NameRef:    nameRef,
	}
}

// NewRefreshClaims builds minimally-correct refresh claims.
func NewRefreshClaims(subject, refreshKey, accessKey, issuer string, ttl time.Duration, now time.Time) RefreshClaims {
	return RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		RefreshKey: refreshKey,
		AccessKey:  accessKey,
	}
}
