package platformsdk

import "context"

// Session holds a user access token. It does not refresh; log in again once
// the token expires.
type Session struct {
	client    *Client
	userToken string
}

// NewSession wraps an existing user access token.
func (c *Client) NewSession(userToken string) *Session {
	return &Session{client: c, userToken: userToken}
}

func (s *Session) AccessToken() string { return s.userToken }

func (s *Session) Me(ctx context.Context) (*UserInfoResponse, error) {
	return s.client.Me(ctx, s.userToken)
}

// Exchange obtains a tenant-scoped token and returns a TenantSession bound
// to it.
func (s *Session) Exchange(ctx context.Context, tenantID string) (*TenantSession, error) {
	tok, err := s.client.Exchange(ctx, s.userToken, tenantID)
	if err != nil {
		return nil, err
	}
	return &TenantSession{client: s.client, tenantID: tenantID, token: tok.AccessToken}, nil
}

// TenantSession holds a token scoped to one tenant.
type TenantSession struct {
	client   *Client
	tenantID string
	token    string
}

func (t *TenantSession) TenantID() string    { return t.tenantID }
func (t *TenantSession) AccessToken() string { return t.token }

func (t *TenantSession) Tenant(ctx context.Context) (*TenantMetadata, error) {
	return t.client.Tenant(ctx, t.token, t.tenantID)
}

func (t *TenantSession) Dashboards(ctx context.Context) ([]DashboardInfo, error) {
	return t.client.TenantDashboards(ctx, t.token, t.tenantID)
}

func (t *TenantSession) SetMemberRole(ctx context.Context, userID, role string) (*MemberResponse, error) {
	return t.client.SetMemberRole(ctx, t.token, t.tenantID, userID, role)
}

func (t *TenantSession) RemoveMember(ctx context.Context, userID string) error {
	return t.client.RemoveMember(ctx, t.token, t.tenantID, userID)
}
