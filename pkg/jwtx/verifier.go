package jwtx

import (
	"errors"
	"time"
)

// Verifier checks a compact token and hands back its verified claim set.
type Verifier interface {
	DecodeAndVerify(token string) (ClaimSet, error)
}

// Signer mints a compact token for a claim set. Implementations stamp the
// iat, exp and iss claims themselves.
type Signer interface {
	Encode(claims ClaimSet, lifetime time.Duration) (string, error)
}

var (
	// Codec failures. Each one is a separate kind so callers can tell an
	// expired token from a tampered one.
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrClockSkew        = errors.New("jwtx: token issued in the future")

	// Model failures.
	ErrSchema = errors.New("jwtx: claim set does not match token kind")
	ErrIssuer = errors.New("jwtx: issuer mismatch")
)

// Reason maps a codec or model error to a short label for logs and metrics.
// It never includes token material.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrInvalidSignature):
		return "tampered"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrClockSkew):
		return "clock_skew"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrIssuer):
		return "issuer"
	default:
		return "unknown"
	}
}
