package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "service-test-secret-at-least-32-bytes"
	testIssuer = "kyros-test"

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

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	codec, err := jwtx.NewCodec(jwtx.CodecConfig{Secret: []byte(testSecret), Issuer: testIssuer})
	require.NoError(t, err)
	return codec
}

func userToken(sub string, tenants ...string) jwtx.UserAccessToken {
	now := time.Now().UTC().Truncate(time.Second)
	return jwtx.UserAccessToken{
		Subject:   sub,
		Email:     sub + "@example.com",
		TenantIDs: tenants,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		Issuer:    testIssuer,
	}
}
