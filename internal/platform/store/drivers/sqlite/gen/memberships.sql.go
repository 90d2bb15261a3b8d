package gen

import (
	"context"
	"time"
)

const getUserTenantRole = `-- name: GetUserTenantRole :one
SELECT role FROM user_tenants WHERE user_id = ? AND tenant_id = ?
`

type GetUserTenantRoleParams struct {
	UserID   string
	TenantID string
}

func (q *Queries) GetUserTenantRole(ctx context.Context, arg GetUserTenantRoleParams) (string, error) {
	row := q.db.QueryRowContext(ctx, getUserTenantRole, arg.UserID, arg.TenantID)
	var role string
	err := row.Scan(&role)
	return role, err
}

const listActiveTenantIDsForUser = `-- name: ListActiveTenantIDsForUser :many
SELECT t.id
FROM tenants t
JOIN user_tenants ut ON ut.tenant_id = t.id
WHERE ut.user_id = ? AND t.is_active = 1
ORDER BY t.name ASC
`

func (q *Queries) ListActiveTenantIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listActiveTenantIDsForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listActiveMembershipsForUser = `-- name: ListActiveMembershipsForUser :many
SELECT t.id, t.name, t.slug, t.is_active, t.config_json, t.created_at, ut.role
FROM tenants t
JOIN user_tenants ut ON ut.tenant_id = t.id
WHERE ut.user_id = ? AND t.is_active = 1
ORDER BY t.name ASC
`

type ListActiveMembershipsForUserRow struct {
	ID         string
	Name       string
	Slug       string
	IsActive   bool
	ConfigJson string
	CreatedAt  time.Time
	Role       string
}

func (q *Queries) ListActiveMembershipsForUser(ctx context.Context, userID string) ([]ListActiveMembershipsForUserRow, error) {
	rows, err := q.db.QueryContext(ctx, listActiveMembershipsForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListActiveMembershipsForUserRow
	for rows.Next() {
		var i ListActiveMembershipsForUserRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Slug,
			&i.IsActive,
			&i.ConfigJson,
			&i.CreatedAt,
			&i.Role,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertUserTenantRole = `-- name: UpsertUserTenantRole :exec
INSERT INTO user_tenants (user_id, tenant_id, role) VALUES (?, ?, ?)
ON CONFLICT (user_id, tenant_id) DO UPDATE SET role = excluded.role
`

type UpsertUserTenantRoleParams struct {
	UserID   string
	TenantID string
	Role     string
}

func (q *Queries) UpsertUserTenantRole(ctx context.Context, arg UpsertUserTenantRoleParams) error {
	_, err := q.db.ExecContext(ctx, upsertUserTenantRole, arg.UserID, arg.TenantID, arg.Role)
	return err
}

const deleteUserTenant = `-- name: DeleteUserTenant :exec
DELETE FROM user_tenants WHERE user_id = ? AND tenant_id = ?
`

type DeleteUserTenantParams struct {
	UserID   string
	TenantID string
}

func (q *Queries) DeleteUserTenant(ctx context.Context, arg DeleteUserTenantParams) error {
	_, err := q.db.ExecContext(ctx, deleteUserTenant, arg.UserID, arg.TenantID)
	return err
}
