package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	st := newTestStore(t)
	svc := &TenantService{Store: st}
	ctx := context.Background()

	t.Run("tenants are limited to those in the token", func(t *testing.T) {
		p, err := svc.Profile(ctx, userToken(adminID, betaID))
		require.NoError(t, err)
		require.Equal(t, "admin@acme.com", p.User.Email)
		require.Len(t, p.Tenants, 1)
		require.Equal(t, betaID, p.Tenants[0].Tenant.ID)
		require.Equal(t, jwtx.RoleAdmin, p.Tenants[0].Role)
	})

	t.Run("token tenants without a membership are dropped", func(t *testing.T) {
		p, err := svc.Profile(ctx, userToken(analystID, acmeID, betaID))
		require.NoError(t, err)
		require.Len(t, p.Tenants, 1)
		require.Equal(t, "Acme Corporation", p.Tenants[0].Tenant.Name)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Profile(ctx, userToken("ghost", acmeID))
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestTenantAndDashboards(t *testing.T) {
	st := newTestStore(t)
	svc := &TenantService{Store: st}
	ctx := context.Background()

	tenant, err := svc.Tenant(ctx, acmeID)
	require.NoError(t, err)
	require.Equal(t, "acme", tenant.Slug)

	_, err = svc.Tenant(ctx, "missing")
	require.ErrorIs(t, err, ErrTenantNotFound)

	ds, err := svc.Dashboards(ctx, acmeID)
	require.NoError(t, err)
	require.Equal(t, []string{"Customer Lifetime Value", "Risk Analysis"}, titles(ds))

	require.NoError(t, st.Tenants().CreateTenant(ctx, domain.Tenant{ID: "t-empty", Name: "Empty", Slug: "empty", IsActive: true}))
	ds, err = svc.Dashboards(ctx, "t-empty")
	require.NoError(t, err)
	require.Empty(t, ds)

	n, err := svc.Health(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func titles(ds []domain.Dashboard) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Title)
	}
	return out
}
