package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// devSecret is only used when ENV=dev and no JWT_SECRET_KEY is set.
const devSecret = "kyros-poc-secret-key-CHANGE-IN-PRODUCTION-12345678"

type Config struct {
	JWTSecret            string        `validate:"required,min=32"`             // Required: HMAC secret shared by every service, never logged
	Issuer               string        `validate:"required"`                    // Issuer claim for tokens (default: kyros-poc)
	UserTokenTTL         time.Duration `validate:"gt=0"`                        // User access token lifetime (default: 1h)
	TenantTokenTTL       time.Duration `validate:"gt=0,ltfield=UserTokenTTL"`   // Tenant token lifetime, shorter than the user token (default: 30m)
	ClockSkew            time.Duration `validate:"gte=0"`                       // Tolerance for future iat (default: 0)
	RoleAuthorityTimeout time.Duration `validate:"gt=0"`                        // Deadline for one role lookup (default: 2s)
	DatabasePath         string        `validate:"required"`                    // Path to the SQLite metadata database (default: tenant_metadata.db)
	CORSOrigins          []string      `validate:"dive,required"`               // Allowed browser origins
	Env                  string        `validate:"required"`                    // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        `validate:"oneof=debug info warn error"` // Log level (default: info)
	LogFormat            string        `validate:"oneof=json text"`             // Log format (default: json)
	Port                 int           `validate:"min=1,max=65535"`             // HTTP server port (default: 8000)
	ShutdownGracePeriod  time.Duration `validate:"gt=0"`                        // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration `validate:"gt=0"`                        // Audit pruning interval (default: 1h)
	AuditRetention       time.Duration `validate:"gt=0"`                        // Age after which exchange audit rows are pruned (default: 720h)
	MockLoginEnabled     bool                                                   // Expose POST /api/auth/mock-login (default: true)

	// RateLimits holds the strict, moderate and public profiles.
	RateLimits httpx.RateLimits

	// UsingDevSecret is set when the built-in development secret was used.
	UsingDevSecret bool
}

// LoadConfig reads .env, if present, then the environment.
func LoadConfig() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	limits := httpx.DefaultRateLimits()

	cfg := Config{
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
		Issuer:               getEnvOrDefault("JWT_ISSUER", "kyros-poc"),
		UserTokenTTL:         getEnvDurationOrDefault("USER_TOKEN_TTL", time.Hour),
		TenantTokenTTL:       getEnvDurationOrDefault("TENANT_TOKEN_TTL", 30*time.Minute),
		ClockSkew:            getEnvDurationOrDefault("JWT_CLOCK_SKEW", 0),
		RoleAuthorityTimeout: getEnvDurationOrDefault("ROLE_AUTHORITY_TIMEOUT", 2*time.Second),
		DatabasePath:         getEnvOrDefault("DATABASE_PATH", "tenant_metadata.db"),
		CORSOrigins:          splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://shell-ui:3000")),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8000),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
		AuditRetention:       getEnvDurationOrDefault("AUDIT_RETENTION", 30*24*time.Hour),
		MockLoginEnabled:     getEnvBoolOrDefault("MOCK_LOGIN_ENABLED", true),
		RateLimits: httpx.RateLimits{
			Strict:   httpx.ParseRateLimitFromEnv("STRICT", limits.Strict),
			Moderate: httpx.ParseRateLimitFromEnv("MODERATE", limits.Moderate),
			Public:   httpx.ParseRateLimitFromEnv("PUBLIC", limits.Public),
		},
	}

	if cfg.JWTSecret == "" && cfg.Env == "dev" {
		cfg.JWTSecret = devSecret
		cfg.UsingDevSecret = true
	}

	return cfg
}

var configValidator = validator.New()

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		// The value is left out so the secret can never end up in a log.
		errs = append(errs, fmt.Errorf("config: %s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.Join(errs...)
}

// LogValue keeps the secret out of structured logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("issuer", c.Issuer),
		slog.Duration("user_token_ttl", c.UserTokenTTL),
		slog.Duration("tenant_token_ttl", c.TenantTokenTTL),
		slog.Duration("clock_skew", c.ClockSkew),
		slog.Duration("role_authority_timeout", c.RoleAuthorityTimeout),
		slog.String("database_path", c.DatabasePath),
		slog.Any("cors_origins", c.CORSOrigins),
		slog.String("env", c.Env),
		slog.Int("port", c.Port),
		slog.Bool("mock_login_enabled", c.MockLoginEnabled),
		slog.Duration("audit_retention", c.AuditRetention),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds, matching the *_SECONDS settings of older deployments.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
