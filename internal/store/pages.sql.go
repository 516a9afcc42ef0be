package store

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"
)

const pageColumns = `id, translation_key, locale_id, parent_id, path, depth, url_path, slug, title,
    page_type, intro, body, seo_title, search_description, live, show_in_menus,
    event_start, event_end, event_status, location_name, location_address,
    location_lat, location_lon, image_url, first_published_at, last_published_at,
    created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPage(row rowScanner) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.TranslationKey,
		&i.LocaleID,
		&i.ParentID,
		&i.Path,
		&i.Depth,
		&i.UrlPath,
		&i.Slug,
		&i.Title,
		&i.PageType,
		&i.Intro,
		&i.Body,
		&i.SeoTitle,
		&i.SearchDescription,
		&i.Live,
		&i.ShowInMenus,
		&i.EventStart,
		&i.EventEnd,
		&i.EventStatus,
		&i.LocationName,
		&i.LocationAddress,
		&i.LocationLat,
		&i.LocationLon,
		&i.ImageUrl,
		&i.FirstPublishedAt,
		&i.LastPublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanPages(rows *sql.Rows) ([]Page, error) {
	defer rows.Close()
	var items []Page
	for rows.Next() {
		i, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPage = `-- name: GetPage :one
SELECT ` + pageColumns + ` FROM pages
WHERE id = ?
`

func (q *Queries) GetPage(ctx context.Context, id int64) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPage, id))
}

const getPageByTranslationKey = `-- name: GetPageByTranslationKey :one
SELECT ` + pageColumns + ` FROM pages
WHERE translation_key = ? AND locale_id = ?
`

type GetPageByTranslationKeyParams struct {
	TranslationKey string `json:"translation_key"`
	LocaleID       int64  `json:"locale_id"`
}

func (q *Queries) GetPageByTranslationKey(ctx context.Context, arg GetPageByTranslationKeyParams) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByTranslationKey, arg.TranslationKey, arg.LocaleID))
}

const getPageByURLPath = `-- name: GetPageByURLPath :one
SELECT ` + pageColumns + ` FROM pages
WHERE locale_id = ? AND url_path = ?
`

type GetPageByURLPathParams struct {
	LocaleID int64  `json:"locale_id"`
	UrlPath  string `json:"url_path"`
}

func (q *Queries) GetPageByURLPath(ctx context.Context, arg GetPageByURLPathParams) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByURLPath, arg.LocaleID, arg.UrlPath))
}

const getPageBySlug = `-- name: GetPageBySlug :one
SELECT ` + pageColumns + ` FROM pages
WHERE slug = ? AND locale_id = ?
ORDER BY depth, path
LIMIT 1
`

type GetPageBySlugParams struct {
	Slug     string `json:"slug"`
	LocaleID int64  `json:"locale_id"`
}

func (q *Queries) GetPageBySlug(ctx context.Context, arg GetPageBySlugParams) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageBySlug, arg.Slug, arg.LocaleID))
}

const getRootPage = `-- name: GetRootPage :one
SELECT ` + pageColumns + ` FROM pages
WHERE depth = 1
ORDER BY id
LIMIT 1
`

func (q *Queries) GetRootPage(ctx context.Context) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getRootPage))
}

const getHomePage = `-- name: GetHomePage :one
SELECT ` + pageColumns + ` FROM pages
WHERE locale_id = ? AND depth = 2
ORDER BY path
LIMIT 1
`

// GetHomePage returns the locale's home page, the first page below the root.
func (q *Queries) GetHomePage(ctx context.Context, localeID int64) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getHomePage, localeID))
}

const listPagesBySlug = `-- name: ListPagesBySlug :many
SELECT ` + pageColumns + ` FROM pages
WHERE slug = ? AND locale_id = ?
ORDER BY path
`

type ListPagesBySlugParams struct {
	Slug     string `json:"slug"`
	LocaleID int64  `json:"locale_id"`
}

func (q *Queries) ListPagesBySlug(ctx context.Context, arg ListPagesBySlugParams) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPagesBySlug, arg.Slug, arg.LocaleID)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listPagesByLocaleMinDepth = `-- name: ListPagesByLocaleMinDepth :many
SELECT ` + pageColumns + ` FROM pages
WHERE locale_id = ? AND depth >= ?
ORDER BY path
`

type ListPagesByLocaleMinDepthParams struct {
	LocaleID int64 `json:"locale_id"`
	Depth    int64 `json:"depth"`
}

func (q *Queries) ListPagesByLocaleMinDepth(ctx context.Context, arg ListPagesByLocaleMinDepthParams) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPagesByLocaleMinDepth, arg.LocaleID, arg.Depth)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listChildPages = `-- name: ListChildPages :many
SELECT ` + pageColumns + ` FROM pages
WHERE parent_id = ?
ORDER BY path
`

func (q *Queries) ListChildPages(ctx context.Context, parentID int64) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listChildPages, parentID)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listMenuPages = `-- name: ListMenuPages :many
SELECT ` + pageColumns + ` FROM pages
WHERE locale_id = ? AND live = 1 AND show_in_menus = 1 AND depth = 3
ORDER BY path
`

func (q *Queries) ListMenuPages(ctx context.Context, localeID int64) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listMenuPages, localeID)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listUpcomingEvents = `-- name: ListUpcomingEvents :many
SELECT ` + pageColumns + ` FROM pages
WHERE locale_id = ? AND page_type = 'event_detail' AND live = 1
  AND event_start >= ?
ORDER BY event_start
LIMIT ?
`

type ListUpcomingEventsParams struct {
	LocaleID int64     `json:"locale_id"`
	Now      time.Time `json:"now"`
	Limit    int64     `json:"limit"`
}

func (q *Queries) ListUpcomingEvents(ctx context.Context, arg ListUpcomingEventsParams) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listUpcomingEvents, arg.LocaleID, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listPastEvents = `-- name: ListPastEvents :many
SELECT ` + pageColumns + ` FROM pages
WHERE locale_id = ? AND page_type = 'event_detail' AND live = 1
  AND event_start < ?
ORDER BY event_start DESC
LIMIT ? OFFSET ?
`

type ListPastEventsParams struct {
	LocaleID int64     `json:"locale_id"`
	Now      time.Time `json:"now"`
	Limit    int64     `json:"limit"`
	Offset   int64     `json:"offset"`
}

func (q *Queries) ListPastEvents(ctx context.Context, arg ListPastEventsParams) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPastEvents, arg.LocaleID, arg.Now, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanPages(rows)
}

const listPageTranslations = `-- name: ListPageTranslations :many
SELECT p.id, p.url_path, p.live, l.code
FROM pages p
INNER JOIN locales l ON l.id = p.locale_id
WHERE p.translation_key = ?
ORDER BY l.position, l.id
`

type ListPageTranslationsRow struct {
	ID         int64  `json:"id"`
	UrlPath    string `json:"url_path"`
	Live       bool   `json:"live"`
	LocaleCode string `json:"locale_code"`
}

func (q *Queries) ListPageTranslations(ctx context.Context, translationKey string) ([]ListPageTranslationsRow, error) {
	rows, err := q.db.QueryContext(ctx, listPageTranslations, translationKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPageTranslationsRow
	for rows.Next() {
		var i ListPageTranslationsRow
		if err := rows.Scan(&i.ID, &i.UrlPath, &i.Live, &i.LocaleCode); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listLivePages = `-- name: ListLivePages :many
SELECT p.id, p.translation_key, p.url_path, p.updated_at, l.code
FROM pages p
INNER JOIN locales l ON l.id = p.locale_id
WHERE p.live = 1 AND p.depth >= 2
ORDER BY p.translation_key, l.position
`

type ListLivePagesRow struct {
	ID             int64     `json:"id"`
	TranslationKey string    `json:"translation_key"`
	UrlPath        string    `json:"url_path"`
	UpdatedAt      time.Time `json:"updated_at"`
	LocaleCode     string    `json:"locale_code"`
}

func (q *Queries) ListLivePages(ctx context.Context) ([]ListLivePagesRow, error) {
	rows, err := q.db.QueryContext(ctx, listLivePages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListLivePagesRow
	for rows.Next() {
		var i ListLivePagesRow
		if err := rows.Scan(&i.ID, &i.TranslationKey, &i.UrlPath, &i.UpdatedAt, &i.LocaleCode); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLastChildPath = `-- name: GetLastChildPath :one
SELECT COALESCE(MAX(path), '') FROM pages
WHERE parent_id IS ?
`

func (q *Queries) GetLastChildPath(ctx context.Context, parentID sql.NullInt64) (string, error) {
	row := q.db.QueryRowContext(ctx, getLastChildPath, parentID)
	var path string
	err := row.Scan(&path)
	return path, err
}

const countPages = `-- name: CountPages :one
SELECT COUNT(*) FROM pages
`

func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPages)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createPage = `-- name: CreatePage :one
INSERT INTO pages (
    translation_key, locale_id, parent_id, path, depth, url_path, slug, title,
    page_type, intro, body, seo_title, search_description, live, show_in_menus,
    event_start, event_end, event_status, location_name, location_address,
    location_lat, location_lon, image_url, first_published_at, last_published_at,
    created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

type CreatePageParams struct {
	TranslationKey    string          `json:"translation_key"`
	LocaleID          int64           `json:"locale_id"`
	ParentID          sql.NullInt64   `json:"parent_id"`
	Path              string          `json:"path"`
	Depth             int64           `json:"depth"`
	UrlPath           string          `json:"url_path"`
	Slug              string          `json:"slug"`
	Title             string          `json:"title"`
	PageType          string          `json:"page_type"`
	Intro             string          `json:"intro"`
	Body              string          `json:"body"`
	SeoTitle          string          `json:"seo_title"`
	SearchDescription string          `json:"search_description"`
	Live              bool            `json:"live"`
	ShowInMenus       bool            `json:"show_in_menus"`
	EventStart        sql.NullTime    `json:"event_start"`
	EventEnd          sql.NullTime    `json:"event_end"`
	EventStatus       string          `json:"event_status"`
	LocationName      string          `json:"location_name"`
	LocationAddress   string          `json:"location_address"`
	LocationLat       sql.NullFloat64 `json:"location_lat"`
	LocationLon       sql.NullFloat64 `json:"location_lon"`
	ImageUrl          string          `json:"image_url"`
	FirstPublishedAt  sql.NullTime    `json:"first_published_at"`
	LastPublishedAt   sql.NullTime    `json:"last_published_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.TranslationKey,
		arg.LocaleID,
		arg.ParentID,
		arg.Path,
		arg.Depth,
		arg.UrlPath,
		arg.Slug,
		arg.Title,
		arg.PageType,
		arg.Intro,
		arg.Body,
		arg.SeoTitle,
		arg.SearchDescription,
		arg.Live,
		arg.ShowInMenus,
		arg.EventStart,
		arg.EventEnd,
		arg.EventStatus,
		arg.LocationName,
		arg.LocationAddress,
		arg.LocationLat,
		arg.LocationLon,
		arg.ImageUrl,
		arg.FirstPublishedAt,
		arg.LastPublishedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPage(row)
}

const publishPageContent = `-- name: PublishPageContent :exec
UPDATE pages SET
    title = ?,
    slug = ?,
    url_path = ?,
    intro = ?,
    body = ?,
    seo_title = ?,
    search_description = ?,
    location_name = ?,
    live = 1,
    first_published_at = COALESCE(first_published_at, ?),
    last_published_at = ?,
    updated_at = ?
WHERE id = ?
`

type PublishPageContentParams struct {
	Title             string    `json:"title"`
	Slug              string    `json:"slug"`
	UrlPath           string    `json:"url_path"`
	Intro             string    `json:"intro"`
	Body              string    `json:"body"`
	SeoTitle          string    `json:"seo_title"`
	SearchDescription string    `json:"search_description"`
	LocationName      string    `json:"location_name"`
	PublishedAt       time.Time `json:"published_at"`
	ID                int64     `json:"id"`
}

func (q *Queries) PublishPageContent(ctx context.Context, arg PublishPageContentParams) error {
	_, err := q.db.ExecContext(ctx, publishPageContent,
		arg.Title,
		arg.Slug,
		arg.UrlPath,
		arg.Intro,
		arg.Body,
		arg.SeoTitle,
		arg.SearchDescription,
		arg.LocationName,
		arg.PublishedAt,
		arg.PublishedAt,
		arg.PublishedAt,
		arg.ID,
	)
	return err
}

const rewriteURLPathPrefix = `-- name: RewriteURLPathPrefix :exec
UPDATE pages SET url_path = ? || substr(url_path, ?)
WHERE locale_id = ? AND url_path LIKE ? ESCAPE '\' AND id != ?
`

type RewriteURLPathPrefixParams struct {
	LocaleID  int64  `json:"locale_id"`
	OldPrefix string `json:"old_prefix"`
	NewPrefix string `json:"new_prefix"`
	ExceptID  int64  `json:"except_id"`
}

// RewriteURLPathPrefix moves the url_path of every descendant from
// OldPrefix to NewPrefix.
func (q *Queries) RewriteURLPathPrefix(ctx context.Context, arg RewriteURLPathPrefixParams) error {
	_, err := q.db.ExecContext(ctx, rewriteURLPathPrefix,
		arg.NewPrefix,
		utf8.RuneCountInString(arg.OldPrefix)+1,
		arg.LocaleID,
		escapeLike(arg.OldPrefix)+"%",
		arg.ExceptID,
	)
	return err
}

const updatePageLocation = `-- name: UpdatePageLocation :exec
UPDATE pages SET location_lat = ?, location_lon = ?, updated_at = ?
WHERE id = ?
`

type UpdatePageLocationParams struct {
	LocationLat sql.NullFloat64 `json:"location_lat"`
	LocationLon sql.NullFloat64 `json:"location_lon"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ID          int64           `json:"id"`
}

func (q *Queries) UpdatePageLocation(ctx context.Context, arg UpdatePageLocationParams) error {
	_, err := q.db.ExecContext(ctx, updatePageLocation, arg.LocationLat, arg.LocationLon, arg.UpdatedAt, arg.ID)
	return err
}

const setPageLive = `-- name: SetPageLive :exec
UPDATE pages SET
    live = ?,
    first_published_at = CASE WHEN ? THEN COALESCE(first_published_at, ?) ELSE first_published_at END,
    updated_at = ?
WHERE id = ?
`

type SetPageLiveParams struct {
	Live      bool      `json:"live"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) SetPageLive(ctx context.Context, arg SetPageLiveParams) error {
	_, err := q.db.ExecContext(ctx, setPageLive, arg.Live, arg.Live, arg.UpdatedAt, arg.UpdatedAt, arg.ID)
	return err
}

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
