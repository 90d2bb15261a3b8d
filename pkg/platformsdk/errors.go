package platformsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/kyros/pkg/httpx"
)

// Error codes returned by the platform.
const (
	CodeMissingToken       = httpx.CodeMissingToken
	CodeMalformedHeader    = httpx.CodeMalformedHeader
	CodeInvalidToken       = httpx.CodeInvalidToken
	CodeTenantMismatch     = httpx.CodeTenantMismatch
	CodeInvalidRequest     = httpx.CodeInvalidRequest
	CodeTenantAccessDenied = httpx.CodeTenantAccessDenied
	CodeRoleNotFound       = httpx.CodeRoleNotFound
	CodeDatabaseError      = httpx.CodeDatabaseError
	CodeInternalError      = httpx.CodeInternalError
	CodeUserNotFound       = httpx.CodeUserNotFound
	CodeTenantNotFound     = httpx.CodeTenantNotFound
	CodeInsufficientRole   = httpx.CodeInsufficientRole
	CodeRateLimited        = httpx.CodeRateLimited
)

// APIError is a non-2xx response decoded from the uniform error body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns an error response into an *APIError. Bodies that
// are not in the uniform shape fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp httpx.ErrorBody
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Message,
			RequestID:  errResp.Error.RequestID,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       httpx.CodeInternalError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		RequestID:  resp.Header.Get("X-Request-ID"),
	}
}
