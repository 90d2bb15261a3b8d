package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// MembersHandler administers the memberships of the token's tenant. It runs
// behind the gate, the tenant guard and an admin role check.
type MembersHandler struct {
	MembershipService *service.MembershipService
}

// HandlePut godoc
//
//	@Summary		Set Member Role Endpoint
//	@Description	Grant a user a role in the tenant, or change their existing role.
//	@Description	Tokens already issued keep their role until they expire.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tenant_id	path		string							true	"Tenant ID, must match the token"
//	@Param			user_id		path		string							true	"User to grant the role to"
//	@Param			request		body		platformsdk.MemberRoleRequest	true	"Role to grant"
//	@Success		200			{object}	platformsdk.MemberResponse		"user_id, tenant_id, role"
//	@Failure		400			{object}	httpx.ErrorBody					"INVALID_REQUEST"
//	@Failure		401			{object}	httpx.ErrorBody					"MISSING_TOKEN, MALFORMED_HEADER, INVALID_TOKEN"
//	@Failure		403			{object}	httpx.ErrorBody					"TENANT_MISMATCH, INSUFFICIENT_ROLE"
//	@Failure		404			{object}	httpx.ErrorBody					"USER_NOT_FOUND, TENANT_NOT_FOUND"
//	@Router			/api/tenant/{tenant_id}/members/{user_id} [put].
func (h *MembersHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req platformsdk.MemberRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidRequest(w, r, "Request body must be a JSON object")
		return
	}
	if err := httpx.ValidateStruct(req); err != nil {
		var ve *httpx.ValidationError
		if errors.As(err, &ve) {
			writeInvalidRequest(w, r, ve.Message)
			return
		}
		writeInvalidRequest(w, r, "Invalid request body")
		return
	}

	role, err := jwtx.ParseRole(req.Role)
	if err != nil {
		writeInvalidRequest(w, r, "role must be one of: admin viewer")
		return
	}

	userID := r.PathValue("user_id")
	if err := h.MembershipService.SetRole(r.Context(), actor, userID, role); err != nil {
		writeServiceError(w, r, err, membersMessage(err, userID, actor.TenantID))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, platformsdk.MemberResponse{
		UserID:   userID,
		TenantID: actor.TenantID,
		Role:     role.String(),
	})
}

// HandleDelete godoc
//
//	@Summary		Remove Member Endpoint
//	@Description	Remove a user's membership of the tenant. Removing a missing membership succeeds.
//	@Tags			Members
//	@Security		BearerAuth
//	@Param			tenant_id	path	string	true	"Tenant ID, must match the token"
//	@Param			user_id		path	string	true	"User to remove"
//	@Success		204			"membership removed"
//	@Failure		401			{object}	httpx.ErrorBody	"MISSING_TOKEN, MALFORMED_HEADER, INVALID_TOKEN"
//	@Failure		403			{object}	httpx.ErrorBody	"TENANT_MISMATCH, INSUFFICIENT_ROLE"
//	@Router			/api/tenant/{tenant_id}/members/{user_id} [delete].
func (h *MembersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	userID := r.PathValue("user_id")
	if err := h.MembershipService.Remove(r.Context(), actor, userID); err != nil {
		writeServiceError(w, r, err, membersMessage(err, userID, actor.TenantID))
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *MembersHandler) actor(w http.ResponseWriter, r *http.Request) (jwtx.TenantScopedToken, bool) {
	p, ok := httpx.TenantFromContext(r.Context())
	if !ok {
		slogx.FromContext(r.Context()).Error("members handler reached without tenant principal")
		httpx.WriteError(w, r, http.StatusUnauthorized, httpx.CodeInvalidToken, "Invalid or expired token")
		return jwtx.TenantScopedToken{}, false
	}
	return p.Token, true
}

func membersMessage(err error, userID, tenantID string) string {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return "user_id is required"
	case errors.Is(err, service.ErrUserNotFound):
		return fmt.Sprintf("User %s not found", userID)
	case errors.Is(err, service.ErrTenantNotFound):
		return fmt.Sprintf("Tenant %s not found", tenantID)
	default:
		return ""
	}
}
