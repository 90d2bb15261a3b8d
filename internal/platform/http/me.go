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

type ProfileHandler struct {
	TenantService *service.TenantService
}

// ServeHTTP godoc
//
//	@Summary		Current User Endpoint
//	@Description	Return the authenticated user with the tenants they can switch into.
//	@Description	Only tenants listed in the token that are still active memberships are returned.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	platformsdk.UserInfoResponse	"user_id, email, tenants"
//	@Failure		401	{object}	httpx.ErrorBody					"MISSING_TOKEN, MALFORMED_HEADER, INVALID_TOKEN"
//	@Failure		404	{object}	httpx.ErrorBody					"USER_NOT_FOUND"
//	@Failure		429	{object}	httpx.ErrorBody					"RATE_LIMITED"
//	@Router			/api/me [get].
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := httpx.UserFromContext(ctx)
	if !ok {
		slogx.FromContext(ctx).Error("profile handler reached without user principal")
		httpx.WriteError(w, r, http.StatusUnauthorized, httpx.CodeInvalidToken, "Invalid or expired token")
		return
	}

	profile, err := h.TenantService.Profile(ctx, p.Token)
	if err != nil {
		msg := ""
		if errors.Is(err, service.ErrUserNotFound) {
			msg = fmt.Sprintf("User %s not found", p.Token.Subject)
		}
		writeServiceError(w, r, err, msg)
		return
	}

	tenants := make([]platformsdk.TenantInfo, 0, len(profile.Tenants))
	for _, m := range profile.Tenants {
		tenants = append(tenants, platformsdk.TenantInfo{
			TenantID:   m.Tenant.ID,
			Name:       m.Tenant.Name,
			Slug:       m.Tenant.Slug,
			Role:       m.Role.String(),
			ConfigJSON: m.Tenant.Config,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, platformsdk.UserInfoResponse{
		UserID:  profile.User.ID,
		Email:   profile.User.Email,
		Tenants: tenants,
	})
}
