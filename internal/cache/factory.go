// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Options selects and configures a backend.
type Options struct {
	RedisURL   string // Empty selects the memory backend
	Prefix     string
	DefaultTTL time.Duration
	MaxItems   int
}

// Open returns a Redis cache when RedisURL is set and reachable, otherwise
// an in-memory cache. An unreachable Redis is logged and never fatal.
func Open(ctx context.Context, opts Options) Cache {
	if opts.RedisURL != "" {
		rc, err := NewRedisCache(ctx, opts.RedisURL, opts.Prefix, opts.DefaultTTL)
		if err == nil {
			slog.Info("using redis cache", "prefix", opts.Prefix)
			return rc
		}
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
	}

	return NewMemoryCache(MemoryOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxItems:        opts.MaxItems,
		CleanupInterval: time.Minute,
	})
}
