package gen

import (
	"database/sql"
	"time"
)

type Dashboard struct {
	Slug        string
	Title       string
	Description sql.NullString
	ConfigJson  string
}

type Tenant struct {
	ID         string
	Name       string
	Slug       string
	IsActive   bool
	ConfigJson string
	CreatedAt  time.Time
}

type TokenExchange struct {
	ID               string
	UserID           string
	TenantID         string
	Outcome          string
	Role             sql.NullString
	TokenFingerprint sql.NullString
	CreatedAt        int64
}

type User struct {
	UserID    string
	Email     string
	CreatedAt time.Time
}

type UserTenant struct {
	UserID   string
	TenantID string
	Role     string
}
