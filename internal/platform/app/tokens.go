package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/kyros/pkg/jwtx"
)

// InitTokenCodec builds the process-wide HS256 codec from the shared secret.
//
// Every service that verifies kyros tokens must be configured with the same
// secret and issuer. The secret itself is never logged.
func InitTokenCodec(cfg Config, logger *slog.Logger) (*jwtx.Codec, error) {
	if cfg.UsingDevSecret {
		logger.Warn("JWT_SECRET_KEY not set, using the built-in development secret")
	}

	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.Issuer,
		ClockSkew: cfg.ClockSkew,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	logger.Info("token codec ready",
		"algorithm", "HS256",
		"issuer", cfg.Issuer,
		"user_token_ttl", cfg.UserTokenTTL,
		"tenant_token_ttl", cfg.TenantTokenTTL,
		"clock_skew", cfg.ClockSkew,
	)

	return codec, nil
}
