package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Key sizes in raw bytes, before base64url encoding.
const (
	// TokenSize128 is for short-lived values like OAuth CSRF state.
	TokenSize128 = 16
	// TokenSize256 is the session access-key size.
	TokenSize256 = 32
	// TokenSize512 is the session refresh-key size.
	TokenSize512 = 64
)

// GenerateToken draws size random bytes and returns them base64url-encoded
// without padding, so the token is safe in URLs, cookies and JWT claims.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
