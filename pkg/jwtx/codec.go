package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single error surfaced for any token that fails
// verification. Malformed, mis-signed, expired and not-yet-valid tokens are
// deliberately indistinguishable to callers so the outward behaviour leaks
// nothing about which check failed.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Codec signs and verifies HS256 tokens with a single shared secret.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec creates a Codec. The issuer is stamped into every token and
// enforced on verification; pass "" to skip issuer enforcement.
func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	return &Codec{secret: secret, issuer: issuer}, nil
}

// Issuer returns the issuer stamped into signed tokens.
func (c *Codec) Issuer() string { return c.issuer }

// SignAccess turns access claims into a signed JWT string.
func (c *Codec) SignAccess(claims AccessClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// SignRefresh turns refresh claims into a signed JWT string.
func (c *Codec) SignRefresh(claims RefreshClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyAccess parses and validates an access token.
func (c *Codec) VerifyAccess(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := c.verify(token, &claims); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// VerifyRefresh parses and validates a refresh token.
func (c *Codec) VerifyRefresh(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.verify(token, &claims); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func (c *Codec) verify(token string, claims jwt.Claims) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
