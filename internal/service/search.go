// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic services.
package service

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"github.com/mccastellazzob/motoclub/internal/seo"
	"github.com/mccastellazzob/motoclub/internal/validate"
)

// SearchPageSize is the number of results per search page.
const SearchPageSize = 20

// SearchService provides full-text search over live pages using SQLite FTS5.
type SearchService struct {
	db *sql.DB
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID         int64
	Title      string
	URL        string // Site-relative, including the locale prefix
	LocaleCode string
	PageType   string
	Excerpt    string
	Highlight  string
	Rank       float64
}

// SearchPage is one page of results.
type SearchPage struct {
	Query      string
	Results    []SearchResult
	Total      int64
	Page       int
	TotalPages int
	AllLocales bool // Results come from the fallback over every locale
}

// HasPrev reports whether a previous page exists.
func (p *SearchPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p *SearchPage) HasNext() bool { return p.Page < p.TotalPages }

// NewSearchService creates a new search service.
func NewSearchService(db *sql.DB) *SearchService {
	return &SearchService{db: db}
}

var ftsUnsafe = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)

// escapeQuery turns free text into an FTS5 prefix query joined with OR.
func (s *SearchService) escapeQuery(query string) string {
	query = ftsUnsafe.ReplaceAllString(strings.TrimSpace(query), " ")

	words := strings.Fields(query)
	if len(words) == 0 {
		return ""
	}

	terms := make([]string, 0, len(words))
	for _, word := range words {
		terms = append(terms, `"`+word+`"*`)
	}
	return strings.Join(terms, " OR ")
}

// ParsePage converts the page query parameter to a 1-based page number.
// Anything that is not a positive integer yields 1.
func ParsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Search validates rawQuery and searches live pages in localeCode. When the
// locale has no hits the search is repeated over every locale. A page past
// the end is clamped to the last page. An invalid query is treated as empty.
func (s *SearchService) Search(ctx context.Context, rawQuery, localeCode string, page int) (*SearchPage, error) {
	query, err := validate.SearchQuery(rawQuery, validate.DefaultSearchMaxLength)
	if err != nil {
		query = ""
	}

	result := &SearchPage{Query: query, Page: 1, Results: []SearchResult{}}
	match := s.escapeQuery(query)
	if match == "" {
		return result, nil
	}

	total, err := s.count(ctx, match, localeCode)
	if err != nil {
		return nil, err
	}
	if total == 0 && localeCode != "" {
		localeCode = ""
		result.AllLocales = true
		if total, err = s.count(ctx, match, ""); err != nil {
			return nil, err
		}
	}
	if total == 0 {
		return result, nil
	}

	result.Total = total
	result.TotalPages = int((total + SearchPageSize - 1) / SearchPageSize)
	result.Page = min(max(page, 1), result.TotalPages)

	result.Results, err = s.query(ctx, match, query, localeCode, (result.Page-1)*SearchPageSize)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// count returns the number of live pages matching the FTS expression.
// FTS5 MATCH, bm25() and snippet() stay as direct SQL.
func (s *SearchService) count(ctx context.Context, match, localeCode string) (int64, error) {
	q := `
		SELECT COUNT(*) FROM pages p
		INNER JOIN pages_fts ON pages_fts.rowid = p.id
		INNER JOIN locales l ON l.id = p.locale_id
		WHERE pages_fts MATCH ? AND p.live = 1 AND p.depth >= 2`
	args := []any{match}
	if localeCode != "" {
		q += " AND l.code = ?"
		args = append(args, localeCode)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *SearchService) query(ctx context.Context, match, query, localeCode string, offset int) ([]SearchResult, error) {
	q := `
		SELECT
			p.id,
			p.title,
			p.url_path,
			p.page_type,
			p.intro,
			p.body,
			l.code,
			bm25(pages_fts) AS rank,
			snippet(pages_fts, -1, '<mark>', '</mark>', '...', 30) AS highlight
		FROM pages p
		INNER JOIN pages_fts ON pages_fts.rowid = p.id
		INNER JOIN locales l ON l.id = p.locale_id
		WHERE pages_fts MATCH ? AND p.live = 1 AND p.depth >= 2`
	args := []any{match}
	if localeCode != "" {
		q += " AND l.code = ?"
		args = append(args, localeCode)
	}
	q += `
		ORDER BY rank, p.id
		LIMIT ? OFFSET ?`
	args = append(args, SearchPageSize, offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var (
			r           SearchResult
			urlPath     string
			intro, body string
		)
		if err := rows.Scan(&r.ID, &r.Title, &urlPath, &r.PageType, &intro, &body, &r.LocaleCode, &r.Rank, &r.Highlight); err != nil {
			return nil, err
		}
		r.URL = "/" + r.LocaleCode + urlPath
		r.Highlight = sanitizeHighlight(r.Highlight)
		text := body
		if strings.TrimSpace(seo.StripHTML(intro)) != "" {
			text = intro + " " + body
		}
		r.Excerpt = generateExcerpt(text, query, 200)
		results = append(results, r)
	}
	return results, rows.Err()
}

// generateExcerpt returns up to maxLen runes of plain text around the first
// occurrence of a query word.
func generateExcerpt(body, query string, maxLen int) string {
	text := []rune(seo.StripHTML(body))
	if len(text) == 0 {
		return ""
	}

	lower := []rune(strings.ToLower(string(text)))
	first := -1
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if idx := runeIndex(lower, []rune(word)); idx != -1 && (first == -1 || idx < first) {
			first = idx
		}
	}

	start := 0
	if first > maxLen/3 {
		start = first - maxLen/3
	}
	end := min(start+maxLen, len(text))

	excerpt := string(text[start:end])
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(text) {
		excerpt += "..."
	}
	return excerpt
}

func runeIndex(s, sub []rune) int {
	if len(sub) == 0 {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if string(s[i:i+len(sub)]) == string(sub) {
			return i
		}
	}
	return -1
}

// sanitizeHighlight strips markup from FTS snippet output except <mark> tags.
func sanitizeHighlight(highlight string) string {
	if highlight == "" {
		return ""
	}
	highlight = strings.ReplaceAll(highlight, "<mark>", "\uE000")
	highlight = strings.ReplaceAll(highlight, "</mark>", "\uE001")
	highlight = seo.StripHTML(highlight)
	highlight = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(highlight)
	highlight = strings.ReplaceAll(highlight, "\uE000", "<mark>")
	highlight = strings.ReplaceAll(highlight, "\uE001", "</mark>")
	return strings.TrimSpace(highlight)
}

// RebuildIndex rebuilds the FTS index from the pages table.
func (s *SearchService) RebuildIndex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO pages_fts(pages_fts) VALUES ('rebuild')`)
	return err
}
