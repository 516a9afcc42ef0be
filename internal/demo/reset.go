// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo seeds a fresh installation with sample content and can wipe
// it again.
package demo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Reset deletes the database files and the uploaded images so the next
// seed starts from scratch. The database must be closed.
func Reset(dbPath, uploadsDir string) error {
	// Main file, WAL and SHM
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", dbPath+suffix, err)
		}
	}
	slog.Info("demo database deleted", "path", dbPath)

	if err := clearDir(uploadsDir); err != nil {
		return fmt.Errorf("clearing uploads: %w", err)
	}
	slog.Info("demo uploads cleared", "path", uploadsDir)
	return nil
}

// clearDir removes everything inside dir but keeps the directory itself.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
