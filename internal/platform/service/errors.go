package service

import (
	"errors"

	"github.com/aussiebroadwan/kyros/pkg/httpx"
)

var (
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrTenantAccessDenied   = errors.New("tenant_access_denied")
	ErrRoleNotFound         = errors.New("role_not_found")
	ErrAuthorityUnavailable = errors.New("role_authority_unavailable")
	ErrMintFailed           = errors.New("token_mint_failed")
	ErrUserNotFound         = errors.New("user_not_found")
	ErrTenantNotFound       = errors.New("tenant_not_found")
)

// ErrorCode maps a service error to the code sent to clients. Unknown errors
// are INTERNAL_ERROR.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return httpx.CodeInvalidRequest
	case errors.Is(err, ErrTenantAccessDenied):
		return httpx.CodeTenantAccessDenied
	case errors.Is(err, ErrRoleNotFound):
		return httpx.CodeRoleNotFound
	case errors.Is(err, ErrAuthorityUnavailable):
		return httpx.CodeDatabaseError
	case errors.Is(err, ErrUserNotFound):
		return httpx.CodeUserNotFound
	case errors.Is(err, ErrTenantNotFound):
		return httpx.CodeTenantNotFound
	default:
		return httpx.CodeInternalError
	}
}
