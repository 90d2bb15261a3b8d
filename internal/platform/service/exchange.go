package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/metrics"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/pkg/cryptox"
	"github.com/aussiebroadwan/kyros/pkg/idx"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

const (
	DefaultAuthorityTimeout = 2 * time.Second

	// auditTimeout bounds the best-effort audit write after the response
	// has been decided.
	auditTimeout = time.Second
)

// RoleAuthority is the system of record for a user's role in a tenant.
// store.Memberships satisfies it.
type RoleAuthority interface {
	// RoleOf returns store.ErrNotFound when the user has no role in the
	// tenant.
	RoleOf(ctx context.Context, userID, tenantID string) (jwtx.Role, error)
}

type ExchangeResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// ExchangeService trades a user access token for a token scoped to one
// tenant. The role always comes from the Authority, never from the caller.
type ExchangeService struct {
	Authority        RoleAuthority
	Tokens           jwtx.Signer
	TenantTokenTTL   time.Duration
	AuthorityTimeout time.Duration

	// Audit and Metrics are optional.
	Audit   store.Exchanges
	Metrics *metrics.Metrics
}

// Exchange validates the request, looks up the role once and mints a tenant
// token. Every attempt is audited whatever the outcome.
func (s *ExchangeService) Exchange(ctx context.Context, user jwtx.UserAccessToken, tenantID string) (*ExchangeResult, error) {
	l := slogx.FromContext(ctx).With(
		slog.String("user_id", user.Subject),
		slog.String("tenant_id", tenantID),
	)

	result, role, err := s.exchange(ctx, l, user, tenantID)

	outcome := domain.ExchangeOutcomeGranted
	if err != nil {
		outcome = ErrorCode(err)
	}
	s.Metrics.ObserveExchange(outcome)
	s.audit(ctx, l, user.Subject, tenantID, outcome, role, result)

	return result, err
}

func (s *ExchangeService) exchange(ctx context.Context, l *slog.Logger, user jwtx.UserAccessToken, tenantID string) (*ExchangeResult, jwtx.Role, error) {
	if tenantID == "" {
		l.Info("token exchange rejected", "reason", "empty_tenant_id")
		return nil, "", ErrInvalidRequest
	}

	if !user.HasTenant(tenantID) {
		l.Warn("token exchange denied", "reason", "tenant_not_in_token")
		return nil, "", ErrTenantAccessDenied
	}

	role, err := s.lookupRole(ctx, user.Subject, tenantID)
	if err != nil {
		return nil, "", err
	}

	ttl := s.TenantTokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTenantTokenTTL
	}

	token, err := s.Tokens.Encode(jwtx.TenantScopedToken{
		Subject:  user.Subject,
		Email:    user.Email,
		TenantID: tenantID,
		Role:     role,
	}.Claims(), ttl)
	if err != nil {
		l.Error("failed to mint tenant token", "error", err)
		return nil, role, fmt.Errorf("%w: %w", ErrMintFailed, err)
	}

	l.Info("token exchange granted",
		"role", role.String(),
		"expires_in", int64(ttl/time.Second),
		"token_fp", cryptox.ShortFingerprint(token),
	)

	return &ExchangeResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl / time.Second),
	}, role, nil
}

// lookupRole asks the Authority exactly once under a deadline.
func (s *ExchangeService) lookupRole(ctx context.Context, userID, tenantID string) (jwtx.Role, error) {
	l := slogx.FromContext(ctx)

	timeout := s.AuthorityTimeout
	if timeout <= 0 {
		timeout = DefaultAuthorityTimeout
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	role, err := s.Authority.RoleOf(lookupCtx, userID, tenantID)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		s.Metrics.ObserveRoleLookup(metrics.LookupFound, elapsed)
		return role, nil

	case errors.Is(err, store.ErrNotFound):
		// The token says member but the authority disagrees, for example
		// after the membership was removed.
		s.Metrics.ObserveRoleLookup(metrics.LookupNotFound, elapsed)
		l.Error("role not found for tenant listed in token", "user_id", userID, "tenant_id", tenantID)
		return "", ErrRoleNotFound

	case errors.Is(err, context.DeadlineExceeded):
		s.Metrics.ObserveRoleLookup(metrics.LookupTimeout, elapsed)
		l.Error("role lookup timed out", "timeout", timeout, "error", err)
		return "", fmt.Errorf("%w: %w", ErrAuthorityUnavailable, err)

	default:
		s.Metrics.ObserveRoleLookup(metrics.LookupError, elapsed)
		l.Error("role lookup failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrAuthorityUnavailable, err)
	}
}

// audit records the attempt. Failures are logged and swallowed so they can
// never change the response.
func (s *ExchangeService) audit(ctx context.Context, l *slog.Logger, userID, tenantID, outcome string, role jwtx.Role, result *ExchangeResult) {
	if s.Audit == nil {
		return
	}

	rec := domain.TokenExchange{
		ID:        idx.New().String(),
		UserID:    userID,
		TenantID:  tenantID,
		Outcome:   outcome,
		Role:      role.String(),
		CreatedAt: time.Now().UTC(),
	}
	if result != nil {
		rec.TokenFingerprint = cryptox.FingerprintToken(result.AccessToken)
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	if err := s.Audit.RecordExchange(auditCtx, rec); err != nil {
		l.Error("failed to record token exchange", "outcome", outcome, "error", err)
	}
}
