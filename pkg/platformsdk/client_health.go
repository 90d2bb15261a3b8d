package platformsdk

import (
	"context"
	"net/http"
)

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/health")
}

// HealthDB checks database connectivity. A down database is an *APIError
// with code DATABASE_UNAVAILABLE.
func (c *Client) HealthDB(ctx context.Context) (*DBHealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health/db", "", nil)
	if err != nil {
		return nil, err
	}

	var health DBHealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/livez")
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/readyz")
}

func (c *Client) getHealth(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
