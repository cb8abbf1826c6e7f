package jwtx

import "encoding/base64"

// Obfuscate encodes a claim value so raw identifiers never appear in token
// payloads. The encoding is reversible on purpose: the service needs the
// original value back, it just should not be readable at a glance.
func Obfuscate(value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value))
}

// Deobfuscate reverses Obfuscate. Any decode failure reports ErrInvalidToken
// since a claim that cannot be decoded came from a token we did not mint.
func Deobfuscate(value string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(raw), nil
}
