package domain

import (
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/kyros/pkg/jwtx"
)

type Tenant struct {
	ID       string
	Name     string
	Slug     string
	IsActive bool
	// Config is the tenant's UI configuration, always a JSON object.
	Config    json.RawMessage
	CreatedAt time.Time
}

// TenantMembership is a tenant as seen by one of its users.
type TenantMembership struct {
	Tenant Tenant
	Role   jwtx.Role
}
