package store

import (
	"context"
)

const listLocales = `-- name: ListLocales :many
SELECT id, code, name, is_default, position, created_at FROM locales
ORDER BY position, id
`

func (q *Queries) ListLocales(ctx context.Context) ([]Locale, error) {
	rows, err := q.db.QueryContext(ctx, listLocales)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Locale
	for rows.Next() {
		var i Locale
		if err := rows.Scan(&i.ID, &i.Code, &i.Name, &i.IsDefault, &i.Position, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLocaleByCode = `-- name: GetLocaleByCode :one
SELECT id, code, name, is_default, position, created_at FROM locales
WHERE code = ?
`

func (q *Queries) GetLocaleByCode(ctx context.Context, code string) (Locale, error) {
	row := q.db.QueryRowContext(ctx, getLocaleByCode, code)
	var i Locale
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.IsDefault, &i.Position, &i.CreatedAt)
	return i, err
}

const getLocale = `-- name: GetLocale :one
SELECT id, code, name, is_default, position, created_at FROM locales
WHERE id = ?
`

func (q *Queries) GetLocale(ctx context.Context, id int64) (Locale, error) {
	row := q.db.QueryRowContext(ctx, getLocale, id)
	var i Locale
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.IsDefault, &i.Position, &i.CreatedAt)
	return i, err
}

const getDefaultLocale = `-- name: GetDefaultLocale :one
SELECT id, code, name, is_default, position, created_at FROM locales
WHERE is_default = 1
LIMIT 1
`

func (q *Queries) GetDefaultLocale(ctx context.Context) (Locale, error) {
	row := q.db.QueryRowContext(ctx, getDefaultLocale)
	var i Locale
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.IsDefault, &i.Position, &i.CreatedAt)
	return i, err
}

const upsertLocale = `-- name: UpsertLocale :one
INSERT INTO locales (code, name, is_default, position)
VALUES (?, ?, ?, ?)
ON CONFLICT(code) DO UPDATE SET
    name = excluded.name,
    is_default = excluded.is_default,
    position = excluded.position
RETURNING id, code, name, is_default, position, created_at
`

type UpsertLocaleParams struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	Position  int64  `json:"position"`
}

func (q *Queries) UpsertLocale(ctx context.Context, arg UpsertLocaleParams) (Locale, error) {
	row := q.db.QueryRowContext(ctx, upsertLocale, arg.Code, arg.Name, arg.IsDefault, arg.Position)
	var i Locale
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.IsDefault, &i.Position, &i.CreatedAt)
	return i, err
}
