package jwtx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func rawUserClaims() jwtx.ClaimSet {
	return jwtx.ClaimSet{
		"sub":        "user-1",
		"email":      "admin@acme.com",
		"tenant_ids": []any{"tenant-a", "tenant-b"},
		"iat":        json.Number("1700000000"),
		"exp":        json.Number("1700003600"),
		"iss":        "kyros-poc",
	}
}

func rawTenantClaims() jwtx.ClaimSet {
	return jwtx.ClaimSet{
		"sub":       "user-1",
		"email":     "admin@acme.com",
		"tenant_id": "tenant-a",
		"role":      "admin",
		"iat":       json.Number("1700000000"),
		"exp":       json.Number("1700001800"),
		"iss":       "kyros-poc",
	}
}

func TestParseRole(t *testing.T) {
	for _, ok := range []string{"admin", "viewer"} {
		role, err := jwtx.ParseRole(ok)
		require.NoError(t, err)
		require.Equal(t, ok, role.String())
	}

	for _, bad := range []string{"", "Admin", "owner", "viewer "} {
		_, err := jwtx.ParseRole(bad)
		require.ErrorIs(t, err, jwtx.ErrSchema, "role %q", bad)
	}
}

func TestParseUserAccessToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tok, err := jwtx.ParseUserAccessToken(rawUserClaims())
		require.NoError(t, err)
		require.Equal(t, "user-1", tok.Subject)
		require.Equal(t, []string{"tenant-a", "tenant-b"}, tok.TenantIDs)
		require.Equal(t, time.Unix(1700000000, 0).UTC(), tok.IssuedAt)
		require.Equal(t, time.Unix(1700003600, 0).UTC(), tok.ExpiresAt)
		require.True(t, tok.HasTenant("tenant-b"))
		require.False(t, tok.HasTenant("TENANT-B"))
	})

	t.Run("empty tenant list is allowed", func(t *testing.T) {
		c := rawUserClaims()
		c["tenant_ids"] = []any{}
		tok, err := jwtx.ParseUserAccessToken(c)
		require.NoError(t, err)
		require.Empty(t, tok.TenantIDs)
	})

	for _, key := range []string{"sub", "email", "tenant_ids", "iat", "exp", "iss"} {
		t.Run("missing "+key, func(t *testing.T) {
			c := rawUserClaims()
			delete(c, key)
			_, err := jwtx.ParseUserAccessToken(c)

			var se *jwtx.SchemaError
			require.ErrorAs(t, err, &se)
			require.Equal(t, key, se.Field)
			require.ErrorIs(t, err, jwtx.ErrSchema)
		})
	}

	t.Run("extra claim", func(t *testing.T) {
		c := rawUserClaims()
		c["role"] = "admin"
		_, err := jwtx.ParseUserAccessToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})

	t.Run("null tenant list", func(t *testing.T) {
		c := rawUserClaims()
		c["tenant_ids"] = nil
		_, err := jwtx.ParseUserAccessToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})

	t.Run("scalar tenant list", func(t *testing.T) {
		c := rawUserClaims()
		c["tenant_ids"] = "tenant-a"
		_, err := jwtx.ParseUserAccessToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})

	t.Run("non-string tenant", func(t *testing.T) {
		c := rawUserClaims()
		c["tenant_ids"] = []any{"tenant-a", json.Number("7")}
		_, err := jwtx.ParseUserAccessToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})

	t.Run("exp not after iat", func(t *testing.T) {
		c := rawUserClaims()
		c["exp"] = c["iat"]
		_, err := jwtx.ParseUserAccessToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})

	t.Run("string timestamp", func(t *testing.T) {
		c := rawUserClaims()
		c["iat"] = "1700000000"
		_, err := jwtx.ParseUserAccessToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})
}

func TestParseTenantScopedToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tok, err := jwtx.ParseTenantScopedToken(rawTenantClaims())
		require.NoError(t, err)
		require.Equal(t, "tenant-a", tok.TenantID)
		require.Equal(t, jwtx.RoleAdmin, tok.Role)
	})

	t.Run("unknown role", func(t *testing.T) {
		c := rawTenantClaims()
		c["role"] = "superuser"
		_, err := jwtx.ParseTenantScopedToken(c)

		var se *jwtx.SchemaError
		require.ErrorAs(t, err, &se)
		require.Equal(t, "role", se.Field)
	})

	t.Run("tenant id as array", func(t *testing.T) {
		c := rawTenantClaims()
		c["tenant_id"] = []any{"tenant-a"}
		_, err := jwtx.ParseTenantScopedToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})

	t.Run("empty tenant id", func(t *testing.T) {
		c := rawTenantClaims()
		c["tenant_id"] = ""
		_, err := jwtx.ParseTenantScopedToken(c)
		require.ErrorIs(t, err, jwtx.ErrSchema)
	})
}

func TestTokenKindsAreDisjoint(t *testing.T) {
	_, err := jwtx.ParseTenantScopedToken(rawUserClaims())
	require.ErrorIs(t, err, jwtx.ErrSchema)

	_, err = jwtx.ParseUserAccessToken(rawTenantClaims())
	require.ErrorIs(t, err, jwtx.ErrSchema)

	// Even a claim set carrying both shapes is neither kind.
	both := rawTenantClaims()
	both["tenant_ids"] = []any{"tenant-a"}
	_, err = jwtx.ParseTenantScopedToken(both)
	require.ErrorIs(t, err, jwtx.ErrSchema)
	_, err = jwtx.ParseUserAccessToken(both)
	require.ErrorIs(t, err, jwtx.ErrSchema)
}

func TestValidateIssuer(t *testing.T) {
	tok, err := jwtx.ParseUserAccessToken(rawUserClaims())
	require.NoError(t, err)

	require.NoError(t, tok.ValidateIssuer("kyros-poc"))
	require.NoError(t, tok.ValidateIssuer(""))
	require.ErrorIs(t, tok.ValidateIssuer("someone-else"), jwtx.ErrIssuer)

	tt, err := jwtx.ParseTenantScopedToken(rawTenantClaims())
	require.NoError(t, err)
	require.ErrorIs(t, tt.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
	require.Equal(t, "issuer", jwtx.Reason(tt.ValidateIssuer("someone-else")))
}

func TestLifetimeOrdering(t *testing.T) {
	require.Less(t, jwtx.DefaultTenantTokenTTL, jwtx.DefaultUserTokenTTL)
	require.Equal(t, 1800*time.Second, jwtx.DefaultTenantTokenTTL)
	require.Equal(t, 3600*time.Second, jwtx.DefaultUserTokenTTL)
}
