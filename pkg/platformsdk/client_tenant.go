package platformsdk

import (
	"context"
	"net/http"
	"net/url"
)

func tenantPath(tenantID string) string {
	return "/api/tenant/" + url.PathEscape(tenantID)
}

func (c *Client) Tenant(ctx context.Context, tenantToken, tenantID string) (*TenantMetadata, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, tenantPath(tenantID), tenantToken, nil)
	if err != nil {
		return nil, err
	}

	var meta TenantMetadata
	if err := decodeJSON(resp, &meta, http.StatusOK); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) TenantDashboards(ctx context.Context, tenantToken, tenantID string) ([]DashboardInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, tenantPath(tenantID)+"/dashboards", tenantToken, nil)
	if err != nil {
		return nil, err
	}

	var dashboards []DashboardInfo
	if err := decodeJSON(resp, &dashboards, http.StatusOK); err != nil {
		return nil, err
	}
	return dashboards, nil
}

// SetMemberRole grants or changes userID's role. The token must be an admin
// token for tenantID.
func (c *Client) SetMemberRole(ctx context.Context, tenantToken, tenantID, userID, role string) (*MemberResponse, error) {
	path := tenantPath(tenantID) + "/members/" + url.PathEscape(userID)
	resp, err := c.doRequest(ctx, http.MethodPut, path, tenantToken, MemberRoleRequest{Role: role})
	if err != nil {
		return nil, err
	}

	var member MemberResponse
	if err := decodeJSON(resp, &member, http.StatusOK); err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember drops userID from tenantID.
func (c *Client) RemoveMember(ctx context.Context, tenantToken, tenantID, userID string) error {
	path := tenantPath(tenantID) + "/members/" + url.PathEscape(userID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, tenantToken, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
