// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultLocales are the site languages. The first is the translation source.
var DefaultLocales = []UpsertLocaleParams{
	{Code: "it", Name: "Italiano", IsDefault: true, Position: 0},
	{Code: "en", Name: "English", Position: 1},
	{Code: "fr", Name: "Français", Position: 2},
}

// Seed creates the locales and the tree root when the database is empty.
// It is safe to run on every start.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	locales, err := queries.ListLocales(ctx)
	if err != nil {
		return fmt.Errorf("listing locales: %w", err)
	}
	if len(locales) == 0 {
		for _, l := range DefaultLocales {
			if _, err := queries.UpsertLocale(ctx, l); err != nil {
				return fmt.Errorf("creating locale %s: %w", l.Code, err)
			}
		}
		slog.Info("created default locales", "count", len(DefaultLocales))
	}

	_, err = queries.GetRootPage(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking root page: %w", err)
	}

	def, err := queries.GetDefaultLocale(ctx)
	if err != nil {
		return fmt.Errorf("loading default locale: %w", err)
	}
	root, err := queries.AddPage(ctx, nil, NewPageParams{
		LocaleID: def.ID,
		Slug:     "root",
		Title:    "Root",
		PageType: "root",
	})
	if err != nil {
		return fmt.Errorf("creating root page: %w", err)
	}
	slog.Info("created page tree root", "id", root.ID)

	return nil
}
