package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
)

// createdAtLayout matches how sqlite renders CURRENT_TIMESTAMP.
const createdAtLayout = "2006-01-02 15:04:05"

// TenantHandler serves tenant-scoped reads. The gate and guard have already
// pinned {tenant_id} to the token's tenant.
type TenantHandler struct {
	TenantService *service.TenantService
}

// HandleGet godoc
//
//	@Summary		Tenant Metadata Endpoint
//	@Description	Return the metadata of the tenant the token is scoped to
//	@Tags			Tenants
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tenant_id	path		string						true	"Tenant ID, must match the token"
//	@Success		200			{object}	platformsdk.TenantMetadata	"id, name, slug, is_active, config_json, created_at"
//	@Failure		401			{object}	httpx.ErrorBody				"MISSING_TOKEN, MALFORMED_HEADER, INVALID_TOKEN"
//	@Failure		403			{object}	httpx.ErrorBody				"TENANT_MISMATCH"
//	@Failure		404			{object}	httpx.ErrorBody				"TENANT_NOT_FOUND"
//	@Router			/api/tenant/{tenant_id} [get].
func (h *TenantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenant_id")

	t, err := h.TenantService.Tenant(r.Context(), tenantID)
	if err != nil {
		msg := ""
		if errors.Is(err, service.ErrTenantNotFound) {
			msg = fmt.Sprintf("Tenant %s not found", tenantID)
		}
		writeServiceError(w, r, err, msg)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tenantMetadata(t))
}

// HandleDashboards godoc
//
//	@Summary		Tenant Dashboards Endpoint
//	@Description	List the dashboards assigned to the tenant, ordered by title
//	@Tags			Tenants
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tenant_id	path		string						true	"Tenant ID, must match the token"
//	@Success		200			{array}		platformsdk.DashboardInfo	"slug, title, description, config_json"
//	@Failure		401			{object}	httpx.ErrorBody				"MISSING_TOKEN, MALFORMED_HEADER, INVALID_TOKEN"
//	@Failure		403			{object}	httpx.ErrorBody				"TENANT_MISMATCH"
//	@Router			/api/tenant/{tenant_id}/dashboards [get].
func (h *TenantHandler) HandleDashboards(w http.ResponseWriter, r *http.Request) {
	dashboards, err := h.TenantService.Dashboards(r.Context(), r.PathValue("tenant_id"))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	out := make([]platformsdk.DashboardInfo, 0, len(dashboards))
	for _, d := range dashboards {
		out = append(out, platformsdk.DashboardInfo{
			Slug:        d.Slug,
			Title:       d.Title,
			Description: d.Description,
			ConfigJSON:  d.Config,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

func tenantMetadata(t domain.Tenant) platformsdk.TenantMetadata {
	active := 0
	if t.IsActive {
		active = 1
	}
	return platformsdk.TenantMetadata{
		ID:         t.ID,
		Name:       t.Name,
		Slug:       t.Slug,
		IsActive:   active,
		ConfigJSON: t.Config,
		CreatedAt:  t.CreatedAt.UTC().Format(createdAtLayout),
	}
}
