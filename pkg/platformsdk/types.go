package platformsdk

import "encoding/json"

// MockLoginRequest is the body of POST /api/auth/mock-login.
type MockLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenExchangeRequest is the body of POST /api/token/exchange.
type TokenExchangeRequest struct {
	TenantID string `json:"tenant_id"`
}

// TokenResponse is returned by mock login and token exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// UserInfoResponse is returned by GET /api/me.
type UserInfoResponse struct {
	UserID  string       `json:"user_id"`
	Email   string       `json:"email"`
	Tenants []TenantInfo `json:"tenants"`
}

// TenantInfo is one tenant in a user's profile.
type TenantInfo struct {
	TenantID   string          `json:"tenant_id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	Role       string          `json:"role"`
	ConfigJSON json.RawMessage `json:"config_json" swaggertype:"object"`
}

// TenantMetadata is returned by GET /api/tenant/{tenant_id}.
type TenantMetadata struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// IsActive is 1 for active tenants and 0 for disabled ones.
	IsActive   int             `json:"is_active"`
	ConfigJSON json.RawMessage `json:"config_json" swaggertype:"object"`
	CreatedAt  string          `json:"created_at"`
}

// DashboardInfo is one entry of GET /api/tenant/{tenant_id}/dashboards.
type DashboardInfo struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ConfigJSON  json.RawMessage `json:"config_json" swaggertype:"object"`
}

// MemberRoleRequest is the body of PUT /api/tenant/{tenant_id}/members/{user_id}.
type MemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin viewer"`
}

// MemberResponse echoes a membership after it was set.
type MemberResponse struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// HealthResponse is returned by /health, /livez and /readyz.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
	Version   string `json:"version,omitempty"`

	// Checks is only set by /readyz.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each dependency in /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// DBHealthResponse is returned by GET /health/db.
type DBHealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	TenantCount int64  `json:"tenant_count"`
	Timestamp   string `json:"timestamp"`
}
