package platformsdk

import (
	"context"
	"net/http"
)

// MockLogin exchanges an email for a user access token.
func (c *Client) MockLogin(ctx context.Context, email string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/mock-login", "", MockLoginRequest{Email: email})
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Exchange trades a user access token for a token scoped to tenantID.
func (c *Client) Exchange(ctx context.Context, userToken, tenantID string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token/exchange", userToken, TokenExchangeRequest{TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Me returns the profile of the user behind userToken.
func (c *Client) Me(ctx context.Context, userToken string) (*UserInfoResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/me", userToken, nil)
	if err != nil {
		return nil, err
	}

	var me UserInfoResponse
	if err := decodeJSON(resp, &me, http.StatusOK); err != nil {
		return nil, err
	}
	return &me, nil
}
