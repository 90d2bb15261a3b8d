package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
)

type Profile struct {
	User    domain.User
	Tenants []domain.TenantMembership
}

type TenantService struct {
	Store store.Store
}

// Profile returns the token's user with the tenants that are both listed in
// the token and still active memberships, ordered by tenant name.
func (s *TenantService) Profile(ctx context.Context, user jwtx.UserAccessToken) (*Profile, error) {
	u, err := s.Store.Users().GetUserByID(ctx, user.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	memberships, err := s.Store.Memberships().ListActiveMemberships(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	tenants := make([]domain.TenantMembership, 0, len(memberships))
	for _, m := range memberships {
		if user.HasTenant(m.Tenant.ID) {
			tenants = append(tenants, m)
		}
	}

	return &Profile{User: u, Tenants: tenants}, nil
}

func (s *TenantService) Tenant(ctx context.Context, tenantID string) (domain.Tenant, error) {
	t, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}
	return t, nil
}

// Dashboards lists the tenant's dashboards ordered by title. A tenant with
// none gets an empty slice.
func (s *TenantService) Dashboards(ctx context.Context, tenantID string) ([]domain.Dashboard, error) {
	return s.Store.Dashboards().ListTenantDashboards(ctx, tenantID)
}

// Health counts tenants as a cheap end to end database check.
func (s *TenantService) Health(ctx context.Context) (int64, error) {
	if err := s.Store.Ping(ctx); err != nil {
		return 0, err
	}
	return s.Store.Tenants().CountTenants(ctx)
}
