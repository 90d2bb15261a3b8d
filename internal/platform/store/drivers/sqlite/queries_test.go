package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*sqlite.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := sqlite.NewStoreFromDB(db)
	t.Cleanup(func() { _ = s.Close() })
	return s, mock
}

func TestRoleOfErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("driver errors are not reported as not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		outage := errors.New("disk I/O error")
		mock.ExpectQuery("SELECT role FROM user_tenants").
			WithArgs("u-1", "t-1").
			WillReturnError(outage)

		_, err := s.Memberships().RoleOf(ctx, "u-1", "t-1")
		require.ErrorIs(t, err, outage)
		require.NotErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown stored role is rejected", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT role FROM user_tenants").
			WithArgs("u-1", "t-1").
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("owner"))

		_, err := s.Memberships().RoleOf(ctx, "u-1", "t-1")
		require.Error(t, err)
		require.NotErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListTenantDashboardsNullDescription(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("FROM dashboards d").
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows([]string{"slug", "title", "description", "config_json"}).
			AddRow("ops", "Ops", nil, "not json"))

	ds, err := s.Dashboards().ListTenantDashboards(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Empty(t, ds[0].Description)
	require.JSONEq(t, `{}`, string(ds[0].Config))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExchangesBeforeUsesUnixSeconds(t *testing.T) {
	s, mock := newMockStore(t)
	cutoff := time.Unix(1_700_000_000, 0)
	mock.ExpectExec("DELETE FROM token_exchanges").
		WithArgs(cutoff.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.Exchanges().DeleteExchangesBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
