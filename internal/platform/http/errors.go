package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// writeServiceError maps a service error to its status and code. message is
// sent for the expected sentinels. Anything unexpected is logged and hidden
// behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	code := service.ErrorCode(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTenantAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrTenantNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrRoleNotFound), errors.Is(err, service.ErrAuthorityUnavailable):
		// Both are logged by the service with their cause.
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		message = "An internal error occurred"
	}

	httpx.WriteError(w, r, status, code, message)
}

func writeInvalidRequest(w http.ResponseWriter, r *http.Request, message string) {
	httpx.WriteError(w, r, http.StatusBadRequest, httpx.CodeInvalidRequest, message)
}
