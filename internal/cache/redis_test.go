// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("OCMS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: OCMS_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_SiteRootPaths(t *testing.T) {
	url := skipIfNoRedis(t)

	c, err := NewRedisCache(Config{RedisURL: url, Prefix: "ocms-menus-test:", DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = c.Close() }()
	ctx := context.Background()
	_ = c.Clear(ctx)

	if err := c.Set(ctx, "site_root_paths", []byte("[]"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "site_root_paths")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get returned %q", got)
	}
	if ttl := c.client.TTL(ctx, c.keys.key("site_root_paths")).Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want the default of 1m", ttl)
	}

	if err := c.Delete(ctx, "site_root_paths"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "site_root_paths"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete error = %v, want ErrCacheMiss", err)
	}
	if stats := c.Stats(); stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestRedisCache_Clear(t *testing.T) {
	url := skipIfNoRedis(t)

	c, err := NewRedisCache(Config{RedisURL: url, Prefix: "ocms-menus-test:"})
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	other, err := NewRedisCache(Config{RedisURL: url, Prefix: "ocms-menus-other:"})
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = c.Close(); _ = other.Close() }()
	ctx := context.Background()

	// More keys than one UNLINK batch.
	for i := range redisClearBatch + 5 {
		_ = c.Set(ctx, "site:"+strconv.Itoa(i), []byte("x"), time.Minute)
	}
	_ = other.Set(ctx, "site_root_paths", []byte("[]"), time.Minute)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if has, _ := c.Has(ctx, "site:0"); has {
		t.Error("Clear should remove the cache's keys")
	}
	if has, _ := other.Has(ctx, "site_root_paths"); !has {
		t.Error("Clear should keep keys of another prefix")
	}
	_ = other.Clear(ctx)

	_ = c.Close()
	if _, err := c.Get(ctx, "site:0"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close error = %v, want ErrCacheClosed", err)
	}
}

func TestRedisKeyspace(t *testing.T) {
	ks := keyspace("ocms-menus:")
	tests := []struct {
		key, wantKey, wantMatch string
	}{
		{"site_root_paths", "ocms-menus:site_root_paths", "ocms-menus:site_root_paths*"},
		{"", "ocms-menus:", "ocms-menus:*"},
		{"a*b[1]?", "ocms-menus:a*b[1]?", `ocms-menus:a\*b\[1\]\?*`},
	}
	for _, tt := range tests {
		if got := ks.key(tt.key); got != tt.wantKey {
			t.Errorf("key(%q) = %q, want %q", tt.key, got, tt.wantKey)
		}
		if got := ks.match(tt.key); got != tt.wantMatch {
			t.Errorf("match(%q) = %q, want %q", tt.key, got, tt.wantMatch)
		}
	}
}

func TestRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(Config{}); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := NewRedisCache(Config{RedisURL: "invalid://url"}); err == nil {
		t.Error("expected error for invalid URL")
	}
}
