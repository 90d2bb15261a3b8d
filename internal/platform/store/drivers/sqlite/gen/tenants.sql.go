package gen

import "context"

const getTenantByID = `-- name: GetTenantByID :one
SELECT id, name, slug, is_active, config_json, created_at FROM tenants WHERE id = ?
`

func (q *Queries) GetTenantByID(ctx context.Context, id string) (Tenant, error) {
	row := q.db.QueryRowContext(ctx, getTenantByID, id)
	var i Tenant
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.IsActive,
		&i.ConfigJson,
		&i.CreatedAt,
	)
	return i, err
}

const createTenant = `-- name: CreateTenant :exec
INSERT INTO tenants (id, name, slug, is_active, config_json) VALUES (?, ?, ?, ?, ?)
`

type CreateTenantParams struct {
	ID         string
	Name       string
	Slug       string
	IsActive   bool
	ConfigJson string
}

func (q *Queries) CreateTenant(ctx context.Context, arg CreateTenantParams) error {
	_, err := q.db.ExecContext(ctx, createTenant,
		arg.ID,
		arg.Name,
		arg.Slug,
		arg.IsActive,
		arg.ConfigJson,
	)
	return err
}

const countTenants = `-- name: CountTenants :one
SELECT COUNT(*) FROM tenants
`

func (q *Queries) CountTenants(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTenants)
	var count int64
	err := row.Scan(&count)
	return count, err
}
