package gen

import "context"

const listTenantDashboards = `-- name: ListTenantDashboards :many
SELECT d.slug, d.title, d.description, d.config_json
FROM dashboards d
JOIN tenant_dashboards td ON td.slug = d.slug
WHERE td.tenant_id = ?
ORDER BY d.title ASC
`

func (q *Queries) ListTenantDashboards(ctx context.Context, tenantID string) ([]Dashboard, error) {
	rows, err := q.db.QueryContext(ctx, listTenantDashboards, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Dashboard
	for rows.Next() {
		var i Dashboard
		if err := rows.Scan(
			&i.Slug,
			&i.Title,
			&i.Description,
			&i.ConfigJson,
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
