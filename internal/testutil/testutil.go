// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for motoclub packages.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/mccastellazzob/motoclub/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary database with migrations applied and the
// locales and tree root seeded. The database is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "motoclub-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := store.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

// Locale returns the seeded locale with code.
func Locale(t *testing.T, db *sql.DB, code string) store.Locale {
	t.Helper()

	l, err := store.New(db).GetLocaleByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("GetLocaleByCode(%s): %v", code, err)
	}
	return l
}

// Tree holds the pages created by HomeTree.
type Tree struct {
	Root  store.Page
	Homes map[string]store.Page // keyed by locale code
}

// HomeTree creates a live home page in every seeded locale, all sharing one
// translation key, under the tree root.
func HomeTree(t *testing.T, db *sql.DB) Tree {
	t.Helper()
	ctx := context.Background()
	q := store.New(db)

	root, err := q.GetRootPage(ctx)
	if err != nil {
		t.Fatalf("GetRootPage: %v", err)
	}
	locales, err := q.ListLocales(ctx)
	if err != nil {
		t.Fatalf("ListLocales: %v", err)
	}

	tree := Tree{Root: root, Homes: make(map[string]store.Page)}
	var key string
	for _, l := range locales {
		home, err := q.AddPage(ctx, &root, store.NewPageParams{
			TranslationKey: key,
			LocaleID:       l.ID,
			Slug:           "home-" + l.Code,
			Title:          "Home",
			PageType:       "home",
			Live:           true,
		})
		if err != nil {
			t.Fatalf("AddPage(home %s): %v", l.Code, err)
		}
		key = home.TranslationKey
		tree.Homes[l.Code] = home
	}
	return tree
}

// AddPage inserts a page under parent and fails the test on error.
func AddPage(t *testing.T, db *sql.DB, parent *store.Page, arg store.NewPageParams) store.Page {
	t.Helper()

	p, err := store.New(db).AddPage(context.Background(), parent, arg)
	if err != nil {
		t.Fatalf("AddPage(%s): %v", arg.Slug, err)
	}
	return p
}
