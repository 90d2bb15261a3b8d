package httpx

import (
	"errors"
	"net/http"
	"slices"

	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// ErrTenantMismatch means the token is scoped to a different tenant than the
// one the request addresses.
var ErrTenantMismatch = errors.New("httpx: token tenant does not match addressed tenant")

// CheckTenantAccess compares the addressed tenant with the token's tenant
// byte for byte. No case folding or trimming is applied.
func CheckTenantAccess(addressed string, p TenantPrincipal) error {
	if addressed == "" || p.Token.TenantID != addressed {
		return ErrTenantMismatch
	}
	return nil
}

// TenantAccessGuard checks the path value named param against the tenant
// principal set by Gate.RequireTenant. It must run after the gate. onReject
// may be nil.
func TenantAccessGuard(param string, onReject func(code, reason string)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			p, ok := TenantFromContext(r.Context())
			if !ok {
				// Wired without a gate in front. Fail closed.
				log.Error("tenant guard reached without tenant principal")
				if onReject != nil {
					onReject(CodeInvalidToken, "no_principal")
				}
				writeUnauthorized(w, r, CodeInvalidToken, msgInvalidToken)
				return
			}

			addressed := r.PathValue(param)
			if err := CheckTenantAccess(addressed, p); err != nil {
				log.Warn("tenant access denied",
					"token_tenant", p.Token.TenantID,
					"addressed_tenant", addressed,
					"user_id", p.Token.Subject,
				)
				if onReject != nil {
					onReject(CodeTenantMismatch, "tenant_mismatch")
				}
				WriteError(w, r, http.StatusForbidden, CodeTenantMismatch,
					"Token tenant does not match the requested tenant")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits tenant principals holding one of the allowed roles. It
// must run after Gate.RequireTenant, and normally after TenantAccessGuard.
func RequireRole(onReject func(code, reason string), allowed ...jwtx.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := TenantFromContext(r.Context())
			if !ok {
				slogx.FromContext(r.Context()).Error("role check reached without tenant principal")
				if onReject != nil {
					onReject(CodeInvalidToken, "no_principal")
				}
				writeUnauthorized(w, r, CodeInvalidToken, msgInvalidToken)
				return
			}

			if !slices.Contains(allowed, p.Token.Role) {
				slogx.FromContext(r.Context()).Warn("insufficient role",
					"role", p.Token.Role.String(),
					"tenant_id", p.Token.TenantID,
					"user_id", p.Token.Subject,
				)
				if onReject != nil {
					onReject(CodeInsufficientRole, "insufficient_role")
				}
				w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
				WriteError(w, r, http.StatusForbidden, CodeInsufficientRole,
					"Token role is not permitted to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
