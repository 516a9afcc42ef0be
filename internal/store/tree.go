// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// pathStep is the width of one tree level in Page.Path.
const pathStep = 4

// NewPageParams describes a page to insert under a parent.
type NewPageParams struct {
	TranslationKey    string // Empty generates a new key
	LocaleID          int64
	Slug              string
	Title             string
	PageType          string
	Intro             string
	Body              string
	SeoTitle          string
	SearchDescription string
	Live              bool
	ShowInMenus       bool
	EventStart        sql.NullTime
	EventEnd          sql.NullTime
	EventStatus       string
	LocationName      string
	LocationAddress   string
	LocationLat       sql.NullFloat64
	LocationLon       sql.NullFloat64
	ImageUrl          string
}

// ChildURLPath returns the url_path of a child with slug under parent.
// Pages at depth 2 are locale home pages and map to "/".
func ChildURLPath(parent *Page, slug string) string {
	if parent == nil {
		return ""
	}
	if parent.Depth == 1 {
		return "/"
	}
	return parent.UrlPath + slug + "/"
}

// nextChildPath returns the materialized path following last under parentPath.
func nextChildPath(parentPath, last string) (string, error) {
	if last == "" {
		return parentPath + fmt.Sprintf("%0*d", pathStep, 1), nil
	}
	n, err := strconv.Atoi(last[len(last)-pathStep:])
	if err != nil {
		return "", fmt.Errorf("parsing path %q: %w", last, err)
	}
	return parentPath + fmt.Sprintf("%0*d", pathStep, n+1), nil
}

// AddPage inserts a page as the last child of parent. A nil parent creates
// the tree root.
func (q *Queries) AddPage(ctx context.Context, parent *Page, arg NewPageParams) (Page, error) {
	var (
		parentID   sql.NullInt64
		parentPath string
		depth      int64 = 1
	)
	if parent != nil {
		parentID = sql.NullInt64{Int64: parent.ID, Valid: true}
		parentPath = parent.Path
		depth = parent.Depth + 1
	}

	last, err := q.GetLastChildPath(ctx, parentID)
	if err != nil {
		return Page{}, fmt.Errorf("reading sibling paths: %w", err)
	}
	path, err := nextChildPath(parentPath, last)
	if err != nil {
		return Page{}, err
	}

	key := arg.TranslationKey
	if key == "" {
		key = uuid.NewString()
	}

	now := time.Now().UTC()
	var published sql.NullTime
	if arg.Live {
		published = sql.NullTime{Time: now, Valid: true}
	}

	page, err := q.CreatePage(ctx, CreatePageParams{
		TranslationKey:    key,
		LocaleID:          arg.LocaleID,
		ParentID:          parentID,
		Path:              path,
		Depth:             depth,
		UrlPath:           ChildURLPath(parent, arg.Slug),
		Slug:              arg.Slug,
		Title:             arg.Title,
		PageType:          arg.PageType,
		Intro:             arg.Intro,
		Body:              arg.Body,
		SeoTitle:          arg.SeoTitle,
		SearchDescription: arg.SearchDescription,
		Live:              arg.Live,
		ShowInMenus:       arg.ShowInMenus,
		EventStart:        arg.EventStart,
		EventEnd:          arg.EventEnd,
		EventStatus:       arg.EventStatus,
		LocationName:      arg.LocationName,
		LocationAddress:   arg.LocationAddress,
		LocationLat:       arg.LocationLat,
		LocationLon:       arg.LocationLon,
		ImageUrl:          arg.ImageUrl,
		FirstPublishedAt:  published,
		LastPublishedAt:   published,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return Page{}, fmt.Errorf("creating page %q: %w", arg.Slug, err)
	}
	return page, nil
}
