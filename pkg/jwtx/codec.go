package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimSet is the raw payload of a verified token. It only lives between the
// codec and the model parsers in claims.go.
type ClaimSet map[string]any

// CodecConfig is the process-wide signing configuration.
type CodecConfig struct {
	// Secret is the shared HMAC key. Never log it.
	Secret []byte

	// Issuer is stamped into every token as "iss".
	Issuer string

	// ClockSkew is how far in the future "iat" may be before the token is
	// rejected. Zero means strict.
	ClockSkew time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// Codec signs and verifies HS256 tokens. It is immutable once built and safe
// for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	skew   time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

var (
	_ Signer   = (*Codec)(nil)
	_ Verifier = (*Codec)(nil)
)

// NewCodec validates cfg and returns a ready codec.
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwtx: secret is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("jwtx: issuer is required")
	}
	if cfg.ClockSkew < 0 {
		return nil, errors.New("jwtx: clock skew must not be negative")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Codec{
		secret: append([]byte(nil), cfg.Secret...),
		issuer: cfg.Issuer,
		skew:   cfg.ClockSkew,
		now:    now,
		// Time based claims are checked by hand below so every failure maps
		// to exactly one error kind.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithJSONNumber(),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// Issuer returns the deployment issuer string.
func (c *Codec) Issuer() string { return c.issuer }

// Encode signs claims with iat=now, exp=now+lifetime and iss=issuer. The
// caller's map is not modified.
func (c *Codec) Encode(claims ClaimSet, lifetime time.Duration) (string, error) {
	if lifetime < time.Second {
		return "", fmt.Errorf("jwtx: lifetime must be at least one second, got %s", lifetime)
	}

	now := c.now().Unix()
	payload := make(jwt.MapClaims, len(claims)+3)
	maps.Copy(payload, claims)
	payload["iat"] = now
	payload["exp"] = now + int64(lifetime/time.Second)
	payload["iss"] = c.issuer

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// DecodeAndVerify checks structure, signature and the temporal claims, in
// that order, and returns the claim set.
func (c *Codec) DecodeAndVerify(token string) (ClaimSet, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformed
	}

	// Any change to the signature segment has to surface as a signature
	// failure, including edits that break its encoding.
	if _, err := base64.RawURLEncoding.Strict().DecodeString(parts[2]); err != nil || parts[2] == "" {
		return nil, ErrInvalidSignature
	}

	mc := jwt.MapClaims{}
	_, err := c.parser.ParseWithClaims(token, mc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	now := c.now()

	if raw, ok := mc["exp"]; ok {
		exp, err := unixSeconds(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: exp: %w", ErrMalformed, err)
		}
		if !now.Before(time.Unix(exp, 0)) {
			return nil, ErrExpired
		}
	}

	if raw, ok := mc["iat"]; ok {
		iat, err := unixSeconds(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: iat: %w", ErrMalformed, err)
		}
		if time.Unix(iat, 0).After(now.Add(c.skew)) {
			return nil, ErrClockSkew
		}
	}

	return ClaimSet(mc), nil
}

// unixSeconds reads an integral NumericDate. Fractions are refused so that
// iat and exp stay plain integers end to end.
func unixSeconds(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("not an integer timestamp (%T)", v)
	}
}
