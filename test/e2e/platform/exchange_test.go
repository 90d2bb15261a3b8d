package platform_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// claimsOf verifies a token with the shared secret the way a downstream
// service would.
func claimsOf(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(testIssuer))
	require.NoError(t, err)
	return claims
}

func TestLoginAndProfile(t *testing.T) {
	client := setupPlatformContainer(t)

	tok, err := client.MockLogin(t.Context(), adminEmail)
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.EqualValues(t, 3600, tok.ExpiresIn)

	claims := claimsOf(t, tok.AccessToken)
	require.Equal(t, adminID, claims["sub"])
	require.ElementsMatch(t, []any{acmeID, betaID}, claims["tenant_ids"])
	require.NotContains(t, claims, "role", "user tokens never carry a role")

	me, err := client.NewSession(tok.AccessToken).Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, adminID, me.UserID)
	require.Len(t, me.Tenants, 2)
	require.Equal(t, "Acme Corporation", me.Tenants[0].Name)
	require.Equal(t, "admin", me.Tenants[0].Role)

	_, err = client.MockLogin(t.Context(), "nobody@acme.com")
	assertAPIError(t, err, http.StatusNotFound, platformsdk.CodeUserNotFound)
}

func TestTokenExchange(t *testing.T) {
	client := setupPlatformContainer(t)

	t.Run("role comes from the metadata store", func(t *testing.T) {
		ts := exchange(t, login(t, client, analystEmail), acmeID)

		claims := claimsOf(t, ts.AccessToken())
		require.Equal(t, acmeID, claims["tenant_id"])
		require.Equal(t, "viewer", claims["role"])
		require.NotContains(t, claims, "tenant_ids")
	})

	t.Run("each tenant gets its own role", func(t *testing.T) {
		session := login(t, client, adminEmail)
		for _, tenantID := range []string{acmeID, betaID} {
			claims := claimsOf(t, exchange(t, session, tenantID).AccessToken())
			require.Equal(t, tenantID, claims["tenant_id"])
			require.Equal(t, "admin", claims["role"])
		}
	})

	t.Run("tenant outside the token", func(t *testing.T) {
		_, err := login(t, client, viewerEmail).Exchange(t.Context(), acmeID)
		assertAPIError(t, err, http.StatusForbidden, platformsdk.CodeTenantAccessDenied)
	})

	t.Run("empty tenant id", func(t *testing.T) {
		_, err := login(t, client, adminEmail).Exchange(t.Context(), "")
		assertAPIError(t, err, http.StatusBadRequest, platformsdk.CodeInvalidRequest)
	})

	t.Run("tenant token cannot be exchanged again", func(t *testing.T) {
		ts := exchange(t, login(t, client, adminEmail), acmeID)
		_, err := client.Exchange(t.Context(), ts.AccessToken(), betaID)
		assertAPIError(t, err, http.StatusUnauthorized, platformsdk.CodeInvalidToken)
	})
}
