package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	User        domain.User
	TenantIDs   []string
}

// LoginService issues user access tokens for users known to the metadata
// store. It stands in for an external identity provider and performs no
// credential check.
type LoginService struct {
	Store        store.Store
	Tokens       jwtx.Signer
	UserTokenTTL time.Duration
}

// MockLogin looks the user up by exact email and mints a user access token
// listing their active tenants.
func (s *LoginService) MockLogin(ctx context.Context, email string) (*LoginResult, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidRequest
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("mock login for unknown user")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tenantIDs, err := s.Store.Memberships().ListActiveTenantIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	ttl := s.UserTokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultUserTokenTTL
	}

	token, err := s.Tokens.Encode(jwtx.UserAccessToken{
		Subject:   user.ID,
		Email:     user.Email,
		TenantIDs: tenantIDs,
	}.Claims(), ttl)
	if err != nil {
		return nil, errors.Join(ErrMintFailed, err)
	}

	l.Info("mock login succeeded", "user_id", user.ID, "tenant_count", len(tenantIDs))

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl / time.Second),
		User:        user,
		TenantIDs:   tenantIDs,
	}, nil
}
