// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mccastellazzob/motoclub/internal/cache"
	"github.com/mccastellazzob/motoclub/internal/store"
)

// menuTTL bounds how long a navigation tree is served from cache.
const menuTTL = 10 * time.Minute

// MenuItem is one navigation entry.
type MenuItem struct {
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	PageType string     `json:"page_type"`
	Children []MenuItem `json:"children,omitempty"`
}

// IsActive reports whether the item or one of its children links to path.
func (m MenuItem) IsActive(path string) bool {
	if m.URL == path {
		return true
	}
	for _, c := range m.Children {
		if c.IsActive(path) {
			return true
		}
	}
	return false
}

// MenuService builds the main navigation of a locale from pages marked
// show_in_menus. Trees are cached per locale.
type MenuService struct {
	queries *store.Queries
	cache   cache.Cache
}

// NewMenuService creates a new MenuService. A nil cache disables caching.
func NewMenuService(db *sql.DB, c cache.Cache) *MenuService {
	return &MenuService{queries: store.New(db), cache: c}
}

func menuKey(localeCode string) string { return "menu:" + localeCode }

// Menu returns the navigation for locale.
func (s *MenuService) Menu(ctx context.Context, locale store.Locale) ([]MenuItem, error) {
	data, err := cache.Remember(ctx, s.cache, menuKey(locale.Code), menuTTL, func() ([]byte, error) {
		items, err := s.build(ctx, locale)
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, err
	}

	var items []MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding menu: %w", err)
	}
	return items, nil
}

func (s *MenuService) build(ctx context.Context, locale store.Locale) ([]MenuItem, error) {
	top, err := s.queries.ListMenuPages(ctx, locale.ID)
	if err != nil {
		return nil, fmt.Errorf("listing menu pages: %w", err)
	}

	items := make([]MenuItem, 0, len(top))
	for _, p := range top {
		item := menuItem(locale.Code, p)
		children, err := s.queries.ListChildPages(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("listing children of %d: %w", p.ID, err)
		}
		for _, c := range children {
			if c.Live && c.ShowInMenus {
				item.Children = append(item.Children, menuItem(locale.Code, c))
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func menuItem(localeCode string, p store.Page) MenuItem {
	return MenuItem{Title: p.Title, URL: "/" + localeCode + p.UrlPath, PageType: p.PageType}
}

// Invalidate drops the cached trees of the given locales.
func (s *MenuService) Invalidate(ctx context.Context, localeCodes ...string) {
	if s.cache == nil {
		return
	}
	for _, code := range localeCodes {
		_ = s.cache.Delete(ctx, menuKey(code))
	}
}
