package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "httpx-test-secret-at-least-32-bytes!!"
	testIssuer = "kyros-test"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type rejection struct{ code, reason string }

type gateFixture struct {
	clock    *clock
	codec    *jwtx.Codec
	gate     *httpx.Gate
	rejected []rejection
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	f := &gateFixture{clock: &clock{now: time.Unix(1_700_000_000, 0)}}

	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		Secret: []byte(testSecret),
		Issuer: testIssuer,
		Now:    f.clock.Now,
	})
	require.NoError(t, err)
	f.codec = codec

	f.gate = &httpx.Gate{
		Verifier: codec,
		Issuer:   testIssuer,
		OnReject: func(code, reason string) {
			f.rejected = append(f.rejected, rejection{code, reason})
		},
	}
	return f
}

func (f *gateFixture) userToken(t *testing.T, tenants ...string) string {
	t.Helper()
	tok, err := f.codec.Encode(jwtx.UserAccessToken{
		Subject:   "user-1",
		Email:     "analyst@acme.com",
		TenantIDs: tenants,
	}.Claims(), jwtx.DefaultUserTokenTTL)
	require.NoError(t, err)
	return tok
}

func (f *gateFixture) tenantToken(t *testing.T, tenant string, role jwtx.Role) string {
	t.Helper()
	tok, err := f.codec.Encode(jwtx.TenantScopedToken{
		Subject:  "user-1",
		Email:    "analyst@acme.com",
		TenantID: tenant,
		Role:     role,
	}.Claims(), jwtx.DefaultTenantTokenTTL)
	require.NoError(t, err)
	return tok
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorDetail {
	t.Helper()
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestGateAuthenticate(t *testing.T) {
	f := newGateFixture(t)
	user := f.userToken(t, "tenant-a")

	t.Run("missing header", func(t *testing.T) {
		for _, h := range []string{"", "   "} {
			p, err := f.gate.Authenticate(h, httpx.KindUser)
			var ge *httpx.GateError
			require.ErrorAs(t, err, &ge)
			require.Equal(t, httpx.CodeMissingToken, ge.Code)
			require.Equal(t, httpx.Unauthenticated{}, p)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, h := range []string{"Basic abc", "Bearer", "Bearer a b", user, "Token " + user} {
			_, err := f.gate.Authenticate(h, httpx.KindUser)
			var ge *httpx.GateError
			require.ErrorAs(t, err, &ge, "header %q", h)
			require.Equal(t, httpx.CodeMalformedHeader, ge.Code)
		}
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		p, err := f.gate.Authenticate("bearer "+user, httpx.KindUser)
		require.NoError(t, err)
		up, ok := p.(httpx.UserPrincipal)
		require.True(t, ok)
		require.Equal(t, []string{"tenant-a"}, up.Token.TenantIDs)
	})

	t.Run("user token is not a tenant token", func(t *testing.T) {
		_, err := f.gate.Authenticate("Bearer "+user, httpx.KindTenant)
		var ge *httpx.GateError
		require.ErrorAs(t, err, &ge)
		require.Equal(t, httpx.CodeInvalidToken, ge.Code)
		require.Equal(t, "schema", ge.Reason)
	})

	t.Run("tenant token is not a user token", func(t *testing.T) {
		tt := f.tenantToken(t, "tenant-a", jwtx.RoleViewer)
		_, err := f.gate.Authenticate("Bearer "+tt, httpx.KindUser)
		var ge *httpx.GateError
		require.ErrorAs(t, err, &ge)
		require.Equal(t, "schema", ge.Reason)

		p, err := f.gate.Authenticate("Bearer "+tt, httpx.KindTenant)
		require.NoError(t, err)
		tp := p.(httpx.TenantPrincipal)
		require.Equal(t, jwtx.RoleViewer, tp.Token.Role)
	})

	t.Run("reason distinguishes expired from tampered", func(t *testing.T) {
		_, err := f.gate.Authenticate("Bearer "+user+"x", httpx.KindUser)
		var ge *httpx.GateError
		require.ErrorAs(t, err, &ge)
		require.Equal(t, httpx.CodeInvalidToken, ge.Code)
		require.Equal(t, "tampered", ge.Reason)

		saved := f.clock.now
		f.clock.now = saved.Add(2 * time.Hour)
		defer func() { f.clock.now = saved }()

		_, err = f.gate.Authenticate("Bearer "+user, httpx.KindUser)
		require.ErrorAs(t, err, &ge)
		require.Equal(t, httpx.CodeInvalidToken, ge.Code)
		require.Equal(t, "expired", ge.Reason)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		other, err := jwtx.NewCodec(jwtx.CodecConfig{
			Secret: []byte(testSecret),
			Issuer: "someone-else",
			Now:    f.clock.Now,
		})
		require.NoError(t, err)
		tok, err := other.Encode(jwtx.UserAccessToken{Subject: "u", Email: "e@x.io", TenantIDs: []string{"a"}}.Claims(), time.Hour)
		require.NoError(t, err)

		_, err = f.gate.Authenticate("Bearer "+tok, httpx.KindUser)
		var ge *httpx.GateError
		require.ErrorAs(t, err, &ge)
		require.Equal(t, "issuer", ge.Reason)
	})
}

func TestGateMiddleware(t *testing.T) {
	f := newGateFixture(t)

	var got httpx.Principal
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = httpx.PrincipalFromContext(r.Context())
		require.Equal(t, "user-1", httpx.UserIDKeyExtractor(r))
		w.WriteHeader(http.StatusNoContent)
	}), f.gate.RequireUser())

	t.Run("admits a valid user token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+f.userToken(t, "tenant-a"))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.IsType(t, httpx.UserPrincipal{}, got)
	})

	t.Run("every rejection is a 401 with the uniform body", func(t *testing.T) {
		f.rejected = nil
		cases := map[string]string{
			"":                   httpx.CodeMissingToken,
			"Basic Zm9vOmJhcg==": httpx.CodeMalformedHeader,
			"Bearer not.a.token": httpx.CodeInvalidToken,
		}
		for header, code := range cases {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)

			body := decodeError(t, rec)
			require.Equal(t, code, body.Code)
			require.NotEmpty(t, body.Message)
			_, err := time.Parse(time.RFC3339, body.Timestamp)
			require.NoError(t, err)
			_, err = uuid.Parse(body.RequestID)
			require.NoError(t, err)
		}
		require.Len(t, f.rejected, len(cases))
	})

	t.Run("invalid token message does not leak the reason", func(t *testing.T) {
		expired := f.userToken(t, "tenant-a")
		saved := f.clock.now
		f.clock.now = saved.Add(2 * time.Hour)
		defer func() { f.clock.now = saved }()

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		expiredMsg := decodeError(t, rec).Message

		req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired+"A")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		tamperedMsg := decodeError(t, rec).Message

		require.Equal(t, expiredMsg, tamperedMsg)
		require.NotContains(t, rec.Body.String(), expired)
	})
}
