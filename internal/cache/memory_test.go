// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "site_root_paths", []byte(`[{"site_id":1}]`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "site_root_paths")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"site_id":1}]` {
		t.Errorf("Get = %q", got)
	}
	if has, _ := c.Has(ctx, "site_root_paths"); !has {
		t.Error("Has should report the stored key")
	}

	if err := c.Delete(ctx, "site_root_paths"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "site_root_paths"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("v"), 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired Get error = %v, want ErrCacheMiss", err)
	}
	if has, _ := c.Has(ctx, "short"); has {
		t.Error("Has should not report an expired key")
	}
}

func TestMemoryCache_MaxSizeEvictsOldest(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, MaxSize: 2})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if has, _ := c.Has(ctx, "a"); has {
		t.Error("oldest entry should have been evicted")
	}
	for _, key := range []string{"b", "c"} {
		if has, _ := c.Has(ctx, key); !has {
			t.Errorf("entry %q should still be cached", key)
		}
	}
	if items := c.Stats().Items; items != 2 {
		t.Errorf("Items = %d, want 2", items)
	}
}

func TestMemoryCache_ClearAndPrefix(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "site:1", []byte("x"), 0)
	_ = c.Set(ctx, "site:2", []byte("y"), 0)
	_ = c.Set(ctx, "other", []byte("z"), 0)

	if err := c.DeleteByPrefix(ctx, "site:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if has, _ := c.Has(ctx, "site:1"); has {
		t.Error("site:1 should be gone")
	}
	if has, _ := c.Has(ctx, "other"); !has {
		t.Error("other should remain")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if stats := c.Stats(); stats.Items != 0 || stats.Size != 0 {
		t.Errorf("after Clear stats = %+v", stats)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("1234"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 set", stats)
	}
	if stats.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", stats.HitRate)
	}
	if stats.Size != 4 {
		t.Errorf("Size = %d, want 4", stats.Size)
	}

	c.ResetStats()
	if stats := c.Stats(); stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("after ResetStats = %+v", stats)
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	value := []byte("original")
	_ = c.Set(ctx, "k", value, 0)
	value[0] = 'X'

	got, _ := c.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
	got[0] = 'Y'
	again, _ := c.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, MaxSize: 50})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d-%d", n, j%20)
				_ = c.Set(ctx, key, []byte("v"), 0)
				_, _ = c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if items := c.Stats().Items; items > 50 {
		t.Errorf("Items = %d, exceeds MaxSize 50", items)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	ctx := context.Background()

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close error = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close error = %v, want ErrCacheClosed", err)
	}
}
