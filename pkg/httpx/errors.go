package httpx

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/kyros/pkg/slogx"
	"github.com/google/uuid"
)

// Error codes carried in the "code" field of every error body.
const (
	CodeMissingToken        = "MISSING_TOKEN"
	CodeMalformedHeader     = "MALFORMED_HEADER"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTenantMismatch      = "TENANT_MISMATCH"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeTenantAccessDenied  = "TENANT_ACCESS_DENIED"
	CodeRoleNotFound        = "ROLE_NOT_FOUND"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeTenantNotFound      = "TENANT_NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInsufficientRole    = "INSUFFICIENT_ROLE"
	CodeNotFound            = "NOT_FOUND"
)

// ErrorDetail is the inner object of an error response.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// ErrorBody is the one error shape every endpoint returns.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// WriteError writes the uniform error body. The request ID is the one the
// logging middleware assigned, so the body can be matched to the log line.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	reqID := slogx.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = uuid.NewString()
	}

	WriteJSON(w, status, ErrorBody{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: reqID,
		},
	})
}
