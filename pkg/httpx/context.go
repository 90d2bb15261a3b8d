package httpx

import (
	"context"

	"github.com/aussiebroadwan/kyros/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyPrincipal ctxKey = "principal"
)

// Principal is the validated identity behind one request. It is one of
// Unauthenticated, UserPrincipal or TenantPrincipal and nothing else.
type Principal interface {
	principal()
}

// Unauthenticated is the principal of a request that carried no credential.
type Unauthenticated struct{}

// UserPrincipal carries a verified user access token.
type UserPrincipal struct {
	Token jwtx.UserAccessToken
}

// TenantPrincipal carries a verified tenant-scoped token.
type TenantPrincipal struct {
	Token jwtx.TenantScopedToken
}

func (Unauthenticated) principal() {}
func (UserPrincipal) principal()   {}
func (TenantPrincipal) principal() {}

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	switch v := p.(type) {
	case UserPrincipal:
		ctx = context.WithValue(ctx, CtxKeyUserID, v.Token.Subject)
	case TenantPrincipal:
		ctx = context.WithValue(ctx, CtxKeyUserID, v.Token.Subject)
	}
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

// PrincipalFromContext returns the request principal, or Unauthenticated when
// no gate ran.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(CtxKeyPrincipal).(Principal); ok {
		return p
	}
	return Unauthenticated{}
}

func UserFromContext(ctx context.Context) (UserPrincipal, bool) {
	p, ok := PrincipalFromContext(ctx).(UserPrincipal)
	return p, ok
}

func TenantFromContext(ctx context.Context) (TenantPrincipal, bool) {
	p, ok := PrincipalFromContext(ctx).(TenantPrincipal)
	return p, ok
}
