package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Probe Endpoint
//	@Description	Readiness probe checking the metadata database and the token signer
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	platformsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	platformsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	signer jwtx.Signer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := slogx.FromContext(r.Context())

		checks := &platformsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			log.Warn("readiness: database unavailable", "error", err)
			checks.Database = "error: database unavailable"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// A throwaway token proves the secret is loaded and usable. It is
		// never returned or logged.
		if _, err := signer.Encode(jwtx.ClaimSet{"sub": "readyz"}, time.Second); err != nil {
			log.Warn("readiness: signer unavailable", "error", err)
			checks.Signer = "error: signer unavailable"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, platformsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
