package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// redisURL skips the test unless MC_TEST_REDIS_URL points at a server.
func redisURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("MC_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: MC_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache(t *testing.T) {
	url := redisURL(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url, "motoclub-test:", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer func() { _ = c.Close() }()
	_ = c.Clear(ctx)

	if _, err := c.Get(ctx, "k"); !IsMiss(err) {
		t.Fatalf("Get(missing) error = %v, want miss", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !IsMiss(err) {
		t.Error("Clear did not remove key")
	}
	if s := c.Stats(); s.Hits != 1 || s.Sets != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestNewRedisCache_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "", "", 0); err == nil {
		t.Error("empty URL: want error")
	}
	if _, err := NewRedisCache(ctx, "not a url", "", 0); err == nil {
		t.Error("bad URL: want error")
	}
}
