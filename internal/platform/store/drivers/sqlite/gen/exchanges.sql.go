package gen

import (
	"context"
	"database/sql"
)

const createTokenExchange = `-- name: CreateTokenExchange :exec
INSERT INTO token_exchanges (id, user_id, tenant_id, outcome, role, token_fingerprint, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateTokenExchangeParams struct {
	ID               string
	UserID           string
	TenantID         string
	Outcome          string
	Role             sql.NullString
	TokenFingerprint sql.NullString
	CreatedAt        int64
}

func (q *Queries) CreateTokenExchange(ctx context.Context, arg CreateTokenExchangeParams) error {
	_, err := q.db.ExecContext(ctx, createTokenExchange,
		arg.ID,
		arg.UserID,
		arg.TenantID,
		arg.Outcome,
		arg.Role,
		arg.TokenFingerprint,
		arg.CreatedAt,
	)
	return err
}

const listTokenExchangesByUser = `-- name: ListTokenExchangesByUser :many
SELECT id, user_id, tenant_id, outcome, role, token_fingerprint, created_at
FROM token_exchanges
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`

type ListTokenExchangesByUserParams struct {
	UserID string
	Limit  int64
}

func (q *Queries) ListTokenExchangesByUser(ctx context.Context, arg ListTokenExchangesByUserParams) ([]TokenExchange, error) {
	rows, err := q.db.QueryContext(ctx, listTokenExchangesByUser, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TokenExchange
	for rows.Next() {
		var i TokenExchange
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.TenantID,
			&i.Outcome,
			&i.Role,
			&i.TokenFingerprint,
			&i.CreatedAt,
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

const deleteTokenExchangesBefore = `-- name: DeleteTokenExchangesBefore :execrows
DELETE FROM token_exchanges WHERE created_at < ?
`

func (q *Queries) DeleteTokenExchangesBefore(ctx context.Context, createdAt int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTokenExchangesBefore, createdAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
