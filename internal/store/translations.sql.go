package store

import (
	"context"
	"time"
)

const getTranslationSource = `-- name: GetTranslationSource :one
SELECT id, object_key, source_locale_id, page_id, content, created_at, updated_at
FROM translation_sources
WHERE object_key = ? AND source_locale_id = ?
`

type GetTranslationSourceParams struct {
	ObjectKey      string `json:"object_key"`
	SourceLocaleID int64  `json:"source_locale_id"`
}

func (q *Queries) GetTranslationSource(ctx context.Context, arg GetTranslationSourceParams) (TranslationSource, error) {
	row := q.db.QueryRowContext(ctx, getTranslationSource, arg.ObjectKey, arg.SourceLocaleID)
	var i TranslationSource
	err := row.Scan(&i.ID, &i.ObjectKey, &i.SourceLocaleID, &i.PageID, &i.Content, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createTranslationSource = `-- name: CreateTranslationSource :one
INSERT INTO translation_sources (object_key, source_locale_id, page_id, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, object_key, source_locale_id, page_id, content, created_at, updated_at
`

type CreateTranslationSourceParams struct {
	ObjectKey      string    `json:"object_key"`
	SourceLocaleID int64     `json:"source_locale_id"`
	PageID         int64     `json:"page_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (q *Queries) CreateTranslationSource(ctx context.Context, arg CreateTranslationSourceParams) (TranslationSource, error) {
	row := q.db.QueryRowContext(ctx, createTranslationSource,
		arg.ObjectKey, arg.SourceLocaleID, arg.PageID, arg.Content, arg.CreatedAt, arg.UpdatedAt)
	var i TranslationSource
	err := row.Scan(&i.ID, &i.ObjectKey, &i.SourceLocaleID, &i.PageID, &i.Content, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateTranslationSourceContent = `-- name: UpdateTranslationSourceContent :exec
UPDATE translation_sources SET content = ?, page_id = ?, updated_at = ?
WHERE id = ?
`

type UpdateTranslationSourceContentParams struct {
	Content   string    `json:"content"`
	PageID    int64     `json:"page_id"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateTranslationSourceContent(ctx context.Context, arg UpdateTranslationSourceContentParams) error {
	_, err := q.db.ExecContext(ctx, updateTranslationSourceContent, arg.Content, arg.PageID, arg.UpdatedAt, arg.ID)
	return err
}

const countTranslationSources = `-- name: CountTranslationSources :one
SELECT COUNT(*) FROM translation_sources
`

func (q *Queries) CountTranslationSources(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTranslationSources)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listStringSegments = `-- name: ListStringSegments :many
SELECT id, source_id, context, value, position FROM string_segments
WHERE source_id = ?
ORDER BY position, id
`

func (q *Queries) ListStringSegments(ctx context.Context, sourceID int64) ([]StringSegment, error) {
	rows, err := q.db.QueryContext(ctx, listStringSegments, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StringSegment
	for rows.Next() {
		var i StringSegment
		if err := rows.Scan(&i.ID, &i.SourceID, &i.Context, &i.Value, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertStringSegment = `-- name: UpsertStringSegment :one
INSERT INTO string_segments (source_id, context, value, position)
VALUES (?, ?, ?, ?)
ON CONFLICT(source_id, context) DO UPDATE SET
    value = excluded.value,
    position = excluded.position
RETURNING id, source_id, context, value, position
`

type UpsertStringSegmentParams struct {
	SourceID int64  `json:"source_id"`
	Context  string `json:"context"`
	Value    string `json:"value"`
	Position int64  `json:"position"`
}

func (q *Queries) UpsertStringSegment(ctx context.Context, arg UpsertStringSegmentParams) (StringSegment, error) {
	row := q.db.QueryRowContext(ctx, upsertStringSegment, arg.SourceID, arg.Context, arg.Value, arg.Position)
	var i StringSegment
	err := row.Scan(&i.ID, &i.SourceID, &i.Context, &i.Value, &i.Position)
	return i, err
}

const deleteStringSegment = `-- name: DeleteStringSegment :exec
DELETE FROM string_segments WHERE id = ?
`

func (q *Queries) DeleteStringSegment(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteStringSegment, id)
	return err
}

const deleteSegmentTranslations = `-- name: DeleteSegmentTranslations :exec
DELETE FROM string_translations WHERE segment_id = ?
`

func (q *Queries) DeleteSegmentTranslations(ctx context.Context, segmentID int64) error {
	_, err := q.db.ExecContext(ctx, deleteSegmentTranslations, segmentID)
	return err
}

const getTranslation = `-- name: GetTranslation :one
SELECT id, source_id, target_locale_id, enabled, created_at, updated_at FROM translations
WHERE source_id = ? AND target_locale_id = ?
`

type GetTranslationParams struct {
	SourceID       int64 `json:"source_id"`
	TargetLocaleID int64 `json:"target_locale_id"`
}

func (q *Queries) GetTranslation(ctx context.Context, arg GetTranslationParams) (Translation, error) {
	row := q.db.QueryRowContext(ctx, getTranslation, arg.SourceID, arg.TargetLocaleID)
	var i Translation
	err := row.Scan(&i.ID, &i.SourceID, &i.TargetLocaleID, &i.Enabled, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createTranslation = `-- name: CreateTranslation :one
INSERT INTO translations (source_id, target_locale_id, enabled, created_at, updated_at)
VALUES (?, ?, 1, ?, ?)
RETURNING id, source_id, target_locale_id, enabled, created_at, updated_at
`

type CreateTranslationParams struct {
	SourceID       int64     `json:"source_id"`
	TargetLocaleID int64     `json:"target_locale_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (q *Queries) CreateTranslation(ctx context.Context, arg CreateTranslationParams) (Translation, error) {
	row := q.db.QueryRowContext(ctx, createTranslation, arg.SourceID, arg.TargetLocaleID, arg.CreatedAt, arg.UpdatedAt)
	var i Translation
	err := row.Scan(&i.ID, &i.SourceID, &i.TargetLocaleID, &i.Enabled, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const touchTranslation = `-- name: TouchTranslation :exec
UPDATE translations SET updated_at = ? WHERE id = ?
`

func (q *Queries) TouchTranslation(ctx context.Context, updatedAt time.Time, id int64) error {
	_, err := q.db.ExecContext(ctx, touchTranslation, updatedAt, id)
	return err
}

const countTranslations = `-- name: CountTranslations :one
SELECT COUNT(*) FROM translations
`

func (q *Queries) CountTranslations(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTranslations)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getStringTranslation = `-- name: GetStringTranslation :one
SELECT id, segment_id, locale_id, data, created_at, updated_at FROM string_translations
WHERE segment_id = ? AND locale_id = ?
`

type GetStringTranslationParams struct {
	SegmentID int64 `json:"segment_id"`
	LocaleID  int64 `json:"locale_id"`
}

func (q *Queries) GetStringTranslation(ctx context.Context, arg GetStringTranslationParams) (StringTranslation, error) {
	row := q.db.QueryRowContext(ctx, getStringTranslation, arg.SegmentID, arg.LocaleID)
	var i StringTranslation
	err := row.Scan(&i.ID, &i.SegmentID, &i.LocaleID, &i.Data, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createStringTranslation = `-- name: CreateStringTranslation :exec
INSERT INTO string_translations (segment_id, locale_id, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateStringTranslationParams struct {
	SegmentID int64     `json:"segment_id"`
	LocaleID  int64     `json:"locale_id"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateStringTranslation(ctx context.Context, arg CreateStringTranslationParams) error {
	_, err := q.db.ExecContext(ctx, createStringTranslation,
		arg.SegmentID, arg.LocaleID, arg.Data, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const updateStringTranslation = `-- name: UpdateStringTranslation :exec
UPDATE string_translations SET data = ?, updated_at = ? WHERE id = ?
`

type UpdateStringTranslationParams struct {
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateStringTranslation(ctx context.Context, arg UpdateStringTranslationParams) error {
	_, err := q.db.ExecContext(ctx, updateStringTranslation, arg.Data, arg.UpdatedAt, arg.ID)
	return err
}

const listSegmentTranslations = `-- name: ListSegmentTranslations :many
SELECT s.context, st.data
FROM string_segments s
INNER JOIN string_translations st ON st.segment_id = s.id
WHERE s.source_id = ? AND st.locale_id = ?
ORDER BY s.position
`

type ListSegmentTranslationsParams struct {
	SourceID int64 `json:"source_id"`
	LocaleID int64 `json:"locale_id"`
}

type ListSegmentTranslationsRow struct {
	Context string `json:"context"`
	Data    string `json:"data"`
}

func (q *Queries) ListSegmentTranslations(ctx context.Context, arg ListSegmentTranslationsParams) ([]ListSegmentTranslationsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSegmentTranslations, arg.SourceID, arg.LocaleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSegmentTranslationsRow
	for rows.Next() {
		var i ListSegmentTranslationsRow
		if err := rows.Scan(&i.Context, &i.Data); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countStringTranslations = `-- name: CountStringTranslations :one
SELECT COUNT(*) FROM string_translations
`

func (q *Queries) CountStringTranslations(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countStringTranslations)
	var count int64
	err := row.Scan(&count)
	return count, err
}
