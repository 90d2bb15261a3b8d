package sqlite_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	acmeID    = "8e1b3d5b-7c9a-4e2f-b1d3-a5c7e9f12345"
	betaID    = "2450a2f8-3b7e-4eab-9b4a-1f73d9a0b1c4"
	analystID = "f8d1e2c3-4b5a-6789-abcd-ef1234567890"
	adminID   = "a1b2c3d4-e5f6-7890-abcd-ef1234567890"
	viewerID  = "b2c3d4e5-f6a7-8901-bcde-f12345678901"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "kyros.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestApplyMigrations(t *testing.T) {
	s := newTestStore(t)

	// Second run is a no-op.
	require.NoError(t, s.ApplyMigrations())

	n, err := s.Tenants().CountTenants(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Users().GetUserByEmail(ctx, "admin@acme.com")
	require.NoError(t, err)
	require.Equal(t, adminID, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	_, err = s.Users().GetUserByEmail(ctx, "ADMIN@acme.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByID(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Users().CreateUser(ctx, domain.User{ID: "u-new", Email: "new@acme.com"}))
	err = s.Users().CreateUser(ctx, domain.User{ID: "u-other", Email: "new@acme.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestTenants(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acme, err := s.Tenants().GetTenantByID(ctx, acmeID)
	require.NoError(t, err)
	require.Equal(t, "Acme Corporation", acme.Name)
	require.Equal(t, "acme", acme.Slug)
	require.True(t, acme.IsActive)
	require.JSONEq(t, `{"theme":"blue","features":["analytics","reports"]}`, string(acme.Config))

	_, err = s.Tenants().GetTenantByID(ctx, "8E1B3D5B-7C9A-4E2F-B1D3-A5C7E9F12345")
	require.ErrorIs(t, err, store.ErrNotFound)

	t.Run("non-object config reads back as empty object", func(t *testing.T) {
		require.NoError(t, s.Tenants().CreateTenant(ctx, domain.Tenant{
			ID: "t-list", Name: "List", Slug: "list", IsActive: true, Config: json.RawMessage(`[1,2]`),
		}))
		got, err := s.Tenants().GetTenantByID(ctx, "t-list")
		require.NoError(t, err)
		require.JSONEq(t, `{}`, string(got.Config))
	})

	t.Run("duplicate slug", func(t *testing.T) {
		err := s.Tenants().CreateTenant(ctx, domain.Tenant{ID: "t-dup", Name: "Dup", Slug: "acme"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestMemberships(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := s.Memberships()

	role, err := m.RoleOf(ctx, adminID, acmeID)
	require.NoError(t, err)
	require.Equal(t, jwtx.RoleAdmin, role)

	role, err = m.RoleOf(ctx, analystID, acmeID)
	require.NoError(t, err)
	require.Equal(t, jwtx.RoleViewer, role)

	_, err = m.RoleOf(ctx, analystID, betaID)
	require.ErrorIs(t, err, store.ErrNotFound)

	ids, err := m.ListActiveTenantIDs(ctx, adminID)
	require.NoError(t, err)
	require.Equal(t, []string{acmeID, betaID}, ids)

	ids, err = m.ListActiveTenantIDs(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, ids)
	require.Empty(t, ids)

	t.Run("inactive tenants are hidden", func(t *testing.T) {
		require.NoError(t, s.Tenants().CreateTenant(ctx, domain.Tenant{
			ID: "t-dormant", Name: "Aardvark Dormant", Slug: "dormant", IsActive: false,
		}))
		require.NoError(t, m.SetRole(ctx, viewerID, "t-dormant", jwtx.RoleAdmin))

		ids, err := m.ListActiveTenantIDs(ctx, viewerID)
		require.NoError(t, err)
		require.Equal(t, []string{betaID}, ids)

		ms, err := m.ListActiveMemberships(ctx, viewerID)
		require.NoError(t, err)
		require.Len(t, ms, 1)
		require.Equal(t, "Beta Industries", ms[0].Tenant.Name)
		require.Equal(t, jwtx.RoleViewer, ms[0].Role)
	})

	t.Run("set role upserts and remove is idempotent", func(t *testing.T) {
		require.NoError(t, m.SetRole(ctx, analystID, betaID, jwtx.RoleViewer))
		require.NoError(t, m.SetRole(ctx, analystID, betaID, jwtx.RoleAdmin))

		role, err := m.RoleOf(ctx, analystID, betaID)
		require.NoError(t, err)
		require.Equal(t, jwtx.RoleAdmin, role)

		require.NoError(t, m.RemoveMembership(ctx, analystID, betaID))
		require.NoError(t, m.RemoveMembership(ctx, analystID, betaID))
		_, err = m.RoleOf(ctx, analystID, betaID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("set role for unknown user", func(t *testing.T) {
		err := m.SetRole(ctx, "nobody", acmeID, jwtx.RoleViewer)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Memberships().SetRole(ctx, analystID, acmeID, jwtx.RoleAdmin); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	role, err := s.Memberships().RoleOf(ctx, analystID, acmeID)
	require.NoError(t, err)
	require.Equal(t, jwtx.RoleViewer, role, "rolled back")

	err = s.WithTx(ctx, func(tx store.Tx) error {
		require.ErrorIs(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), sql.ErrTxDone)
		return tx.Memberships().SetRole(ctx, analystID, acmeID, jwtx.RoleAdmin)
	})
	require.NoError(t, err)

	role, err = s.Memberships().RoleOf(ctx, analystID, acmeID)
	require.NoError(t, err)
	require.Equal(t, jwtx.RoleAdmin, role)
}

func TestDashboards(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ds, err := s.Dashboards().ListTenantDashboards(ctx, acmeID)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	require.Equal(t, "Customer Lifetime Value", ds[0].Title)
	require.Equal(t, "risk-analysis", ds[1].Slug)
	require.NotEmpty(t, ds[0].Description)

	ds, err = s.Dashboards().ListTenantDashboards(ctx, betaID)
	require.NoError(t, err)
	require.Len(t, ds, 1)

	ds, err = s.Dashboards().ListTenantDashboards(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, ds)
	require.Empty(t, ds)
}

func TestExchanges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ex := s.Exchanges()
	base := time.Unix(1_700_000_000, 0).UTC()

	for i, outcome := range []string{domain.ExchangeOutcomeGranted, "TENANT_ACCESS_DENIED", domain.ExchangeOutcomeGranted} {
		e := domain.TokenExchange{
			ID:        []string{"ex-1", "ex-2", "ex-3"}[i],
			UserID:    adminID,
			TenantID:  acmeID,
			Outcome:   outcome,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if outcome == domain.ExchangeOutcomeGranted {
			e.Role = "admin"
			e.TokenFingerprint = "abc123"
		}
		require.NoError(t, ex.RecordExchange(ctx, e))
	}

	got, err := ex.ListExchangesByUser(ctx, adminID, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "ex-3", got[0].ID)
	require.Equal(t, base.Add(2*time.Hour), got[0].CreatedAt)
	require.Equal(t, "admin", got[0].Role)
	require.Empty(t, got[1].Role)
	require.Empty(t, got[1].TokenFingerprint)

	got, err = ex.ListExchangesByUser(ctx, adminID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	n, err := ex.DeleteExchangesBefore(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	got, err = ex.ListExchangesByUser(ctx, adminID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ex-3", got[0].ID)

	require.ErrorIs(t, ex.RecordExchange(ctx, domain.TokenExchange{
		ID: "ex-3", UserID: adminID, TenantID: acmeID, Outcome: domain.ExchangeOutcomeGranted,
	}), store.ErrAlreadyExists)
}
