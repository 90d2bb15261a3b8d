// Package cryptox holds the small hashing helpers used to keep raw tokens out
// of storage and logs.
package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// FingerprintToken returns the base64url SHA-256 of token (43 chars). The
// audit trail stores this instead of the token.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// ShortFingerprint is the first 8 chars of FingerprintToken, enough to
// correlate log lines without identifying the token.
func ShortFingerprint(token string) string {
	if token == "" {
		return ""
	}
	return FingerprintToken(token)[:8]
}
