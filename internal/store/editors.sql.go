package store

import (
	"context"
	"database/sql"
	"time"
)

const createEditor = `-- name: CreateEditor :one
INSERT INTO editors (email, name, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, email, name, password_hash, last_login_at, created_at
`

type CreateEditorParams struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (q *Queries) CreateEditor(ctx context.Context, arg CreateEditorParams) (Editor, error) {
	row := q.db.QueryRowContext(ctx, createEditor, arg.Email, arg.Name, arg.PasswordHash, arg.CreatedAt)
	var i Editor
	err := row.Scan(&i.ID, &i.Email, &i.Name, &i.PasswordHash, &i.LastLoginAt, &i.CreatedAt)
	return i, err
}

const getEditorByEmail = `-- name: GetEditorByEmail :one
SELECT id, email, name, password_hash, last_login_at, created_at FROM editors
WHERE email = ?
`

func (q *Queries) GetEditorByEmail(ctx context.Context, email string) (Editor, error) {
	row := q.db.QueryRowContext(ctx, getEditorByEmail, email)
	var i Editor
	err := row.Scan(&i.ID, &i.Email, &i.Name, &i.PasswordHash, &i.LastLoginAt, &i.CreatedAt)
	return i, err
}

const getEditor = `-- name: GetEditor :one
SELECT id, email, name, password_hash, last_login_at, created_at FROM editors
WHERE id = ?
`

func (q *Queries) GetEditor(ctx context.Context, id int64) (Editor, error) {
	row := q.db.QueryRowContext(ctx, getEditor, id)
	var i Editor
	err := row.Scan(&i.ID, &i.Email, &i.Name, &i.PasswordHash, &i.LastLoginAt, &i.CreatedAt)
	return i, err
}

const updateEditorLogin = `-- name: UpdateEditorLogin :exec
UPDATE editors SET last_login_at = ?, password_hash = ? WHERE id = ?
`

type UpdateEditorLoginParams struct {
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	PasswordHash string       `json:"password_hash"`
	ID           int64        `json:"id"`
}

func (q *Queries) UpdateEditorLogin(ctx context.Context, arg UpdateEditorLoginParams) error {
	_, err := q.db.ExecContext(ctx, updateEditorLogin, arg.LastLoginAt, arg.PasswordHash, arg.ID)
	return err
}
