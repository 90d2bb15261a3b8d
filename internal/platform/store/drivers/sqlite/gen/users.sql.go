package gen

import "context"

const getUserByID = `-- name: GetUserByID :one
SELECT user_id, email, created_at FROM users WHERE user_id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, userID string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, userID)
	var i User
	err := row.Scan(&i.UserID, &i.Email, &i.CreatedAt)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT user_id, email, created_at FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(&i.UserID, &i.Email, &i.CreatedAt)
	return i, err
}

const createUser = `-- name: CreateUser :exec
INSERT INTO users (user_id, email) VALUES (?, ?)
`

type CreateUserParams struct {
	UserID string
	Email  string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser, arg.UserID, arg.Email)
	return err
}
