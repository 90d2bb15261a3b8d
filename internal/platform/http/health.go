package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// HealthHandler godoc
//
//	@Summary		Health Endpoint
//	@Description	Report that the API process is up. Does not touch the database.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	platformsdk.HealthResponse	"status, timestamp"
//	@Router			/health [get].
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, platformsdk.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type DBHealthHandler struct {
	TenantService *service.TenantService
}

// ServeHTTP godoc
//
//	@Summary		Database Health Endpoint
//	@Description	Check the metadata database by counting tenants
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	platformsdk.DBHealthResponse	"status, database, tenant_count, timestamp"
//	@Failure		503	{object}	httpx.ErrorBody					"DATABASE_UNAVAILABLE"
//	@Router			/health/db [get].
func (h *DBHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	count, err := h.TenantService.Health(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("database health check failed", "error", err)
		httpx.WriteError(w, r, http.StatusServiceUnavailable, httpx.CodeDatabaseUnavailable, "Database connection failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, platformsdk.DBHealthResponse{
		Status:      "ok",
		Database:    "connected",
		TenantCount: count,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}
