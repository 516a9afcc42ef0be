package store

import (
	"context"
	"time"
)

const createImage = `-- name: CreateImage :one
INSERT INTO images (filename, title, collection, width, height, size, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, filename, title, collection, width, height, size, created_at
`

type CreateImageParams struct {
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Collection string    `json:"collection"`
	Width      int64     `json:"width"`
	Height     int64     `json:"height"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}

func (q *Queries) CreateImage(ctx context.Context, arg CreateImageParams) (Image, error) {
	row := q.db.QueryRowContext(ctx, createImage,
		arg.Filename, arg.Title, arg.Collection, arg.Width, arg.Height, arg.Size, arg.CreatedAt)
	var i Image
	err := row.Scan(&i.ID, &i.Filename, &i.Title, &i.Collection, &i.Width, &i.Height, &i.Size, &i.CreatedAt)
	return i, err
}

const listImages = `-- name: ListImages :many
SELECT id, filename, title, collection, width, height, size, created_at FROM images
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

type ListImagesParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListImages(ctx context.Context, arg ListImagesParams) ([]Image, error) {
	rows, err := q.db.QueryContext(ctx, listImages, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Image
	for rows.Next() {
		var i Image
		if err := rows.Scan(&i.ID, &i.Filename, &i.Title, &i.Collection, &i.Width, &i.Height, &i.Size, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const imageFilenameExists = `-- name: ImageFilenameExists :one
SELECT EXISTS(SELECT 1 FROM images WHERE filename = ?)
`

func (q *Queries) ImageFilenameExists(ctx context.Context, filename string) (bool, error) {
	row := q.db.QueryRowContext(ctx, imageFilenameExists, filename)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const countImagesByPrefix = `-- name: CountImagesByPrefix :one
SELECT COUNT(*) FROM images WHERE filename LIKE ? ESCAPE '\'
`

// CountImagesByPrefix counts stored images whose file name starts with prefix.
func (q *Queries) CountImagesByPrefix(ctx context.Context, prefix string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countImagesByPrefix, escapeLike(prefix)+"%")
	var count int64
	err := row.Scan(&count)
	return count, err
}
