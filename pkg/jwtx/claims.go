package jwtx

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"
)

// Default lifetimes for the two token kinds. A tenant-scoped token always
// lives shorter than the user token it was exchanged from.
const (
	DefaultUserTokenTTL   = time.Hour
	DefaultTenantTokenTTL = 30 * time.Minute
)

// Role is a tenant-scoped authorization level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// ParseRole accepts only the known roles. There is no case folding.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleViewer:
		return Role(s), nil
	default:
		return "", &SchemaError{Field: "role", Problem: fmt.Sprintf("unknown role %q", s)}
	}
}

func (r Role) String() string { return string(r) }

// SchemaError reports a claim set that does not fit the requested token kind.
type SchemaError struct {
	Field   string
	Problem string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("jwtx: claim %q: %s", e.Field, e.Problem)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// UserAccessToken says "this person, and the tenants they may act within".
type UserAccessToken struct {
	Subject   string
	Email     string
	TenantIDs []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
}

// TenantScopedToken says "this person, acting as exactly one tenant, with
// this role".
type TenantScopedToken struct {
	Subject   string
	Email     string
	TenantID  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
}

var (
	userTokenKeys   = []string{"sub", "email", "tenant_ids", "iat", "exp", "iss"}
	tenantTokenKeys = []string{"sub", "email", "tenant_id", "role", "iat", "exp", "iss"}
)

// ParseUserAccessToken converts a verified claim set into a UserAccessToken.
// Unknown or missing keys are rejected, never ignored.
func ParseUserAccessToken(claims ClaimSet) (UserAccessToken, error) {
	if err := exactKeys(claims, userTokenKeys); err != nil {
		return UserAccessToken{}, err
	}

	var (
		t   UserAccessToken
		err error
	)
	if t.Subject, err = stringClaim(claims, "sub"); err != nil {
		return UserAccessToken{}, err
	}
	if t.Email, err = stringClaim(claims, "email"); err != nil {
		return UserAccessToken{}, err
	}
	if t.TenantIDs, err = stringListClaim(claims, "tenant_ids"); err != nil {
		return UserAccessToken{}, err
	}
	if t.Issuer, err = stringClaim(claims, "iss"); err != nil {
		return UserAccessToken{}, err
	}
	if t.IssuedAt, t.ExpiresAt, err = lifetimeClaims(claims); err != nil {
		return UserAccessToken{}, err
	}
	return t, nil
}

// ParseTenantScopedToken converts a verified claim set into a
// TenantScopedToken. A user access token's claims never satisfy it because
// tenant_ids is not an allowed key.
func ParseTenantScopedToken(claims ClaimSet) (TenantScopedToken, error) {
	if err := exactKeys(claims, tenantTokenKeys); err != nil {
		return TenantScopedToken{}, err
	}

	var (
		t   TenantScopedToken
		err error
	)
	if t.Subject, err = stringClaim(claims, "sub"); err != nil {
		return TenantScopedToken{}, err
	}
	if t.Email, err = stringClaim(claims, "email"); err != nil {
		return TenantScopedToken{}, err
	}
	if t.TenantID, err = stringClaim(claims, "tenant_id"); err != nil {
		return TenantScopedToken{}, err
	}
	role, err := stringClaim(claims, "role")
	if err != nil {
		return TenantScopedToken{}, err
	}
	if t.Role, err = ParseRole(role); err != nil {
		return TenantScopedToken{}, err
	}
	if t.Issuer, err = stringClaim(claims, "iss"); err != nil {
		return TenantScopedToken{}, err
	}
	if t.IssuedAt, t.ExpiresAt, err = lifetimeClaims(claims); err != nil {
		return TenantScopedToken{}, err
	}
	return t, nil
}

// Claims returns the body of a user access token without the codec-owned
// iat, exp and iss claims.
func (t UserAccessToken) Claims() ClaimSet {
	ids := t.TenantIDs
	if ids == nil {
		ids = []string{}
	}
	return ClaimSet{
		"sub":        t.Subject,
		"email":      t.Email,
		"tenant_ids": slices.Clone(ids),
	}
}

// HasTenant reports exact membership. No normalisation is applied.
func (t UserAccessToken) HasTenant(tenantID string) bool {
	return slices.Contains(t.TenantIDs, tenantID)
}

// ValidateIssuer checks the token was minted by the expected issuer.
func (t UserAccessToken) ValidateIssuer(expected string) error {
	return validateIssuer(t.Issuer, expected)
}

// Claims returns the body of a tenant-scoped token without iat, exp and iss.
func (t TenantScopedToken) Claims() ClaimSet {
	return ClaimSet{
		"sub":       t.Subject,
		"email":     t.Email,
		"tenant_id": t.TenantID,
		"role":      string(t.Role),
	}
}

// ValidateIssuer checks the token was minted by the expected issuer.
func (t TenantScopedToken) ValidateIssuer(expected string) error {
	return validateIssuer(t.Issuer, expected)
}

func validateIssuer(got, expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if got != expected {
		return ErrIssuer
	}
	return nil
}

func exactKeys(claims ClaimSet, want []string) error {
	for _, k := range want {
		if _, ok := claims[k]; !ok {
			return &SchemaError{Field: k, Problem: "missing"}
		}
	}
	if len(claims) == len(want) {
		return nil
	}

	// Report the extra keys in a stable order.
	var extra []string
	for k := range claims {
		if !slices.Contains(want, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return &SchemaError{Field: extra[0], Problem: "unexpected claim"}
}

func stringClaim(claims ClaimSet, key string) (string, error) {
	s, ok := claims[key].(string)
	if !ok {
		return "", &SchemaError{Field: key, Problem: "must be a string"}
	}
	if s == "" {
		return "", &SchemaError{Field: key, Problem: "must not be empty"}
	}
	return s, nil
}

func stringListClaim(claims ClaimSet, key string) ([]string, error) {
	var items []string
	switch v := claims[key].(type) {
	case []string:
		items = slices.Clone(v)
	case []any:
		items = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok || s == "" {
				return nil, &SchemaError{Field: key, Problem: "must contain only non-empty strings"}
			}
			items = append(items, s)
		}
	default:
		return nil, &SchemaError{Field: key, Problem: "must be an array of strings"}
	}
	return items, nil
}

func lifetimeClaims(claims ClaimSet) (iat, exp time.Time, err error) {
	i, err := intClaim(claims, "iat")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := intClaim(claims, "exp")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e <= i {
		return time.Time{}, time.Time{}, &SchemaError{Field: "exp", Problem: "must be after iat"}
	}
	return time.Unix(i, 0).UTC(), time.Unix(e, 0).UTC(), nil
}

func intClaim(claims ClaimSet, key string) (int64, error) {
	switch v := claims[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, &SchemaError{Field: key, Problem: "must be an integer"}
		}
		return n, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, &SchemaError{Field: key, Problem: "must be an integer"}
	}
}
