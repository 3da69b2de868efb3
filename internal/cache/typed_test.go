// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRootPath struct {
	SiteID  int64  `json:"site_id"`
	Path    string `json:"path"`
	RootURL string `json:"root_url"`
}

func TestTypedCache_BasicOperations(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = mem.Close() }()

	c := NewTypedCache[[]testRootPath](mem, time.Hour)
	ctx := context.Background()

	roots := []testRootPath{{SiteID: 1, Path: "00010001", RootURL: "http://localhost"}}
	if err := c.Set(ctx, "site_root_paths", &roots); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(ctx, "site_root_paths")
	if !found {
		t.Fatal("expected to find site_root_paths")
	}
	if len(*got) != 1 || (*got)[0] != roots[0] {
		t.Errorf("got %+v, want %+v", *got, roots)
	}

	if err := c.Delete(ctx, "site_root_paths"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(ctx, "site_root_paths"); found {
		t.Error("expected miss after Delete")
	}
}

func TestTypedCache_UndecodableEntry(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	_ = mem.Set(ctx, "bad", []byte("not json"), 0)
	c := NewTypedCache[testRootPath](mem, time.Hour)
	if _, found := c.Get(ctx, "bad"); found {
		t.Error("undecodable entry should be a miss")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = mem.Close() }()

	c := NewTypedCache[testRootPath](mem, time.Hour)
	ctx := context.Background()

	calls := 0
	load := func() (*testRootPath, error) {
		calls++
		return &testRootPath{SiteID: 7, Path: "0001"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet(ctx, "root", load)
		if err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if got.SiteID != 7 {
			t.Errorf("SiteID = %d, want 7", got.SiteID)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestTypedCache_GetOrSetError(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = mem.Close() }()

	c := NewTypedCache[testRootPath](mem, time.Hour)
	ctx := context.Background()
	wantErr := errors.New("db down")

	_, err := c.GetOrSet(ctx, "root", func() (*testRootPath, error) { return nil, wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("GetOrSet error = %v, want %v", err, wantErr)
	}
	if has, _ := mem.Has(ctx, "root"); has {
		t.Error("failed load should not be cached")
	}
}
