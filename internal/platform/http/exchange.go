package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

type ExchangeHandler struct {
	ExchangeService *service.ExchangeService
}

// ServeHTTP godoc
//
//	@Summary		Token Exchange Endpoint
//	@Description	Exchange a user access token for a token scoped to one tenant.
//	@Description	The role in the new token is looked up server side. Any role in the request is ignored.
//	@Description	Also served at POST /token/exchange.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		platformsdk.TokenExchangeRequest	true	"Tenant to scope the token to"
//	@Success		200		{object}	platformsdk.TokenResponse			"access_token, token_type, expires_in"
//	@Failure		400		{object}	httpx.ErrorBody						"INVALID_REQUEST"
//	@Failure		401		{object}	httpx.ErrorBody						"MISSING_TOKEN, MALFORMED_HEADER, INVALID_TOKEN"
//	@Failure		403		{object}	httpx.ErrorBody						"TENANT_ACCESS_DENIED"
//	@Failure		429		{object}	httpx.ErrorBody						"RATE_LIMITED"
//	@Failure		500		{object}	httpx.ErrorBody						"ROLE_NOT_FOUND, DATABASE_ERROR, INTERNAL_ERROR"
//	@Router			/api/token/exchange [post].
func (h *ExchangeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := httpx.UserFromContext(ctx)
	if !ok {
		slogx.FromContext(ctx).Error("exchange handler reached without user principal")
		httpx.WriteError(w, r, http.StatusUnauthorized, httpx.CodeInvalidToken, "Invalid or expired token")
		return
	}

	var req platformsdk.TokenExchangeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidRequest(w, r, "Request body must be a JSON object")
		return
	}

	res, err := h.ExchangeService.Exchange(ctx, p.Token, req.TenantID)
	if err != nil {
		writeServiceError(w, r, err, exchangeMessage(err, req.TenantID))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, platformsdk.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresIn:   res.ExpiresIn,
	})
}

func exchangeMessage(err error, tenantID string) string {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return "tenant_id is required"
	case errors.Is(err, service.ErrTenantAccessDenied):
		return fmt.Sprintf("User does not have access to tenant %s", tenantID)
	case errors.Is(err, service.ErrRoleNotFound):
		return "User role not found for tenant"
	case errors.Is(err, service.ErrAuthorityUnavailable):
		return "Failed to retrieve user role"
	default:
		return ""
	}
}
