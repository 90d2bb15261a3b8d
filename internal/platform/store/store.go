package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the tenant metadata database. Drivers expose it as a set of small
// repositories so services only depend on what they read.
type Store interface {
	Users() Users
	Tenants() Tenants
	Memberships() Memberships
	Dashboards() Dashboards
	Exchanges() Exchanges

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches the email exactly as stored.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser fails with ErrAlreadyExists on a duplicate id or email.
	CreateUser(ctx context.Context, u domain.User) error
}

type Tenants interface {
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	// CreateTenant fails with ErrAlreadyExists on a duplicate id or slug.
	CreateTenant(ctx context.Context, t domain.Tenant) error

	CountTenants(ctx context.Context) (int64, error)
}

// Memberships is the authority of record for who may act in which tenant.
type Memberships interface {
	// RoleOf returns the user's current role in the tenant, or ErrNotFound
	// when there is no relationship.
	RoleOf(ctx context.Context, userID, tenantID string) (jwtx.Role, error)

	// ListActiveTenantIDs returns the ids of active tenants the user belongs
	// to, ordered by tenant name.
	ListActiveTenantIDs(ctx context.Context, userID string) ([]string, error)

	// ListActiveMemberships returns active tenants the user belongs to,
	// ordered by tenant name.
	ListActiveMemberships(ctx context.Context, userID string) ([]domain.TenantMembership, error)

	// SetRole creates or updates the user's role in the tenant.
	SetRole(ctx context.Context, userID, tenantID string, role jwtx.Role) error

	// RemoveMembership deletes the relationship. Missing rows are not an error.
	RemoveMembership(ctx context.Context, userID, tenantID string) error
}

type Dashboards interface {
	// ListTenantDashboards returns the dashboards assigned to the tenant
	// ordered by title. No dashboards is an empty slice, not ErrNotFound.
	ListTenantDashboards(ctx context.Context, tenantID string) ([]domain.Dashboard, error)
}

// Exchanges is the token exchange audit trail.
type Exchanges interface {
	RecordExchange(ctx context.Context, e domain.TokenExchange) error

	// ListExchangesByUser returns the user's exchanges, newest first.
	ListExchangesByUser(ctx context.Context, userID string, limit int) ([]domain.TokenExchange, error)

	// DeleteExchangesBefore prunes rows created before cutoff and returns
	// how many were removed.
	DeleteExchangesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
