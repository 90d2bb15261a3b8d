package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// MembershipService changes who holds which role in a tenant. Tokens already
// minted keep their role until they expire.
type MembershipService struct {
	Store store.Store
}

// SetRole grants or changes a user's role in a tenant.
func (s *MembershipService) SetRole(ctx context.Context, actor jwtx.TenantScopedToken, userID string, role jwtx.Role) error {
	if userID == "" {
		return ErrInvalidRequest
	}
	if _, err := jwtx.ParseRole(role.String()); err != nil {
		return ErrInvalidRequest
	}
	tenantID := actor.TenantID

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if _, err := tx.Tenants().GetTenantByID(ctx, tenantID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTenantNotFound
			}
			return err
		}
		return tx.Memberships().SetRole(ctx, userID, tenantID, role)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("membership role set",
		"actor_id", actor.Subject,
		"user_id", userID,
		"tenant_id", tenantID,
		"role", role.String(),
	)
	return nil
}

// Remove drops a user's membership. Removing a missing membership succeeds.
func (s *MembershipService) Remove(ctx context.Context, actor jwtx.TenantScopedToken, userID string) error {
	if userID == "" {
		return ErrInvalidRequest
	}

	if err := s.Store.Memberships().RemoveMembership(ctx, userID, actor.TenantID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("membership removed",
		"actor_id", actor.Subject,
		"user_id", userID,
		"tenant_id", actor.TenantID,
	)
	return nil
}
