package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
)

type MockLoginHandler struct {
	LoginService *service.LoginService

	// Enabled is false in deployments fronted by a real identity provider.
	Enabled bool
}

// ServeHTTP godoc
//
//	@Summary		Mock Login Endpoint
//	@Description	Issue a user access token for a known email without checking credentials.
//	@Description	The token lists every active tenant the user belongs to. Disabled outside development.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		platformsdk.MockLoginRequest	true	"User email"
//	@Success		200		{object}	platformsdk.TokenResponse		"access_token, token_type, expires_in"
//	@Failure		400		{object}	httpx.ErrorBody					"INVALID_REQUEST"
//	@Failure		404		{object}	httpx.ErrorBody					"USER_NOT_FOUND, or NOT_FOUND when disabled"
//	@Failure		429		{object}	httpx.ErrorBody					"RATE_LIMITED"
//	@Router			/api/auth/mock-login [post].
func (h *MockLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled {
		httpx.WriteError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Not found")
		return
	}

	var req platformsdk.MockLoginRequest
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

	res, err := h.LoginService.MockLogin(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err, mockLoginMessage(err, req.Email))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, platformsdk.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresIn:   res.ExpiresIn,
	})
}

func mockLoginMessage(err error, email string) string {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return fmt.Sprintf("User with email %s not found", email)
	case errors.Is(err, service.ErrInvalidRequest):
		return "email is required"
	default:
		return ""
	}
}
