package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// TokenKind is the kind of bearer token a route accepts.
type TokenKind int

const (
	KindUser TokenKind = iota + 1
	KindTenant
)

func (k TokenKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindTenant:
		return "tenant"
	default:
		return "unknown"
	}
}

var (
	ErrMissingToken    = errors.New("httpx: missing bearer token")
	ErrMalformedHeader = errors.New("httpx: authorization header is not a bearer credential")
)

// Client-facing messages. INVALID_TOKEN always uses the same text whatever
// the underlying reason.
const (
	msgMissingToken    = "Authorization token is required"
	msgMalformedHeader = "Authorization header must be of the form 'Bearer <token>'"
	msgInvalidToken    = "Invalid or expired token"
)

// GateError is a rejected credential. Code is sent to the client, Reason only
// goes to logs and metrics.
type GateError struct {
	Code   string
	Reason string
	Err    error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("httpx: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *GateError) Unwrap() error { return e.Err }

func (e *GateError) message() string {
	switch e.Code {
	case CodeMissingToken:
		return msgMissingToken
	case CodeMalformedHeader:
		return msgMalformedHeader
	default:
		return msgInvalidToken
	}
}

// Gate turns an Authorization header into a Principal. It holds no per-request
// state and is safe for concurrent use.
type Gate struct {
	Verifier jwtx.Verifier

	// Issuer is the expected "iss". Empty disables the check.
	Issuer string

	// OnReject, if set, is called for every rejected request.
	OnReject func(code, reason string)
}

// Authenticate validates header as a bearer credential of the given kind.
// Any returned error is a *GateError.
func (g *Gate) Authenticate(header string, kind TokenKind) (Principal, error) {
	if strings.TrimSpace(header) == "" {
		return Unauthenticated{}, &GateError{Code: CodeMissingToken, Reason: "missing", Err: ErrMissingToken}
	}

	raw, ok := bearerCredential(header)
	if !ok {
		return Unauthenticated{}, &GateError{Code: CodeMalformedHeader, Reason: "malformed_header", Err: ErrMalformedHeader}
	}

	claims, err := g.Verifier.DecodeAndVerify(raw)
	if err != nil {
		return Unauthenticated{}, invalidToken(err)
	}

	switch kind {
	case KindUser:
		tok, err := jwtx.ParseUserAccessToken(claims)
		if err != nil {
			return Unauthenticated{}, invalidToken(err)
		}
		if err := tok.ValidateIssuer(g.Issuer); err != nil {
			return Unauthenticated{}, invalidToken(err)
		}
		return UserPrincipal{Token: tok}, nil

	case KindTenant:
		tok, err := jwtx.ParseTenantScopedToken(claims)
		if err != nil {
			return Unauthenticated{}, invalidToken(err)
		}
		if err := tok.ValidateIssuer(g.Issuer); err != nil {
			return Unauthenticated{}, invalidToken(err)
		}
		return TenantPrincipal{Token: tok}, nil

	default:
		return Unauthenticated{}, invalidToken(fmt.Errorf("unsupported token kind %d", kind))
	}
}

// RequireUser only admits requests carrying a valid user access token.
func (g *Gate) RequireUser() Middleware { return g.require(KindUser) }

// RequireTenant only admits requests carrying a valid tenant-scoped token.
func (g *Gate) RequireTenant() Middleware { return g.require(KindTenant) }

func (g *Gate) require(kind TokenKind) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := g.Authenticate(r.Header.Get("Authorization"), kind)
			if err != nil {
				var ge *GateError
				if !errors.As(err, &ge) {
					ge = invalidToken(err)
				}

				// Never log the credential itself.
				slogx.FromContext(r.Context()).Warn("authentication rejected",
					"code", ge.Code,
					"reason", ge.Reason,
					"kind", kind.String(),
				)
				if g.OnReject != nil {
					g.OnReject(ge.Code, ge.Reason)
				}

				writeUnauthorized(w, r, ge.Code, ge.message())
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), p)))
		})
	}
}

func invalidToken(err error) *GateError {
	return &GateError{Code: CodeInvalidToken, Reason: jwtx.Reason(err), Err: err}
}

// bearerCredential splits "Bearer <token>". The scheme is case-insensitive
// and there must be exactly one credential after it.
func bearerCredential(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}

// writeUnauthorized sends an RFC 6750 challenge alongside the error body.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, code, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+message+`"`)
	WriteError(w, r, http.StatusUnauthorized, code, message)
}
