// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the byte cache shared by the translation memo and
// the rendered sitemap. Backends are in-memory or Redis.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is implemented by every backend. All implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Stats holds hit counters for a backend.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
}

// Error is a sentinel cache error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

// Remember returns the cached value for key, or calls build, stores its
// result for ttl and returns it. Backend failures other than a miss are
// ignored so a broken cache never breaks the caller.
func Remember(ctx context.Context, c Cache, key string, ttl time.Duration, build func() ([]byte, error)) ([]byte, error) {
	if c != nil {
		if val, err := c.Get(ctx, key); err == nil {
			return val, nil
		}
	}

	val, err := build()
	if err != nil {
		return nil, err
	}

	if c != nil {
		_ = c.Set(ctx, key, val, ttl)
	}
	return val, nil
}

// hitRate returns hits as a percentage of all lookups.
func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses) * 100
}

// IsMiss reports whether err is a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
