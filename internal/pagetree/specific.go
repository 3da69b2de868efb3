// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagetree

import (
	"context"
	"fmt"
	"sync"

	"github.com/olegiv/ocms-menus/internal/model"
)

// SpecificLoader loads the specific data of pages of one content type,
// keyed by page ID. Pages without stored data may be left out.
type SpecificLoader func(ctx context.Context, ids []int64) (map[int64]any, error)

// RegisterSpecificLoader sets the loader used to downcast pages of
// contentType. Content types without a loader downcast to PlainPage.
func (t *Tree) RegisterSpecificLoader(contentType string, fn SpecificLoader) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loaders[contentType] = fn
}

// SpecificCache remembers downcast data by page ID. One cache is shared by
// a menu and all of its sub-menus.
type SpecificCache struct {
	mu    sync.Mutex
	data  map[int64]any
	loads int
}

// NewSpecificCache returns an empty cache.
func NewSpecificCache() *SpecificCache {
	return &SpecificCache{data: make(map[int64]any)}
}

// Loads returns how many batch loads went to storage through this cache.
func (c *SpecificCache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

func (c *SpecificCache) get(id int64) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[id]
	return v, ok
}

func (c *SpecificCache) put(id int64, v any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.data[id] = v
	c.mu.Unlock()
}

func (c *SpecificCache) countLoad() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
}

// Specific downcasts pages in place, one batch load per content type.
// Pages that are already specific, or whose data is in sc, cost nothing.
// sc may be nil.
func (t *Tree) Specific(ctx context.Context, sc *SpecificCache, pages ...*model.Page) error {
	pending := make(map[string][]*model.Page)
	for _, p := range pages {
		if p == nil || p.IsSpecific() {
			continue
		}
		if v, ok := sc.get(p.ID); ok {
			p.Specific = v
			continue
		}
		pending[p.ContentType] = append(pending[p.ContentType], p)
	}

	for contentType, batch := range pending {
		t.mu.RLock()
		load := t.loaders[contentType]
		t.mu.RUnlock()

		if load == nil {
			for _, p := range batch {
				p.Specific = &model.PlainPage{}
				sc.put(p.ID, p.Specific)
			}
			continue
		}

		ids := make([]int64, 0, len(batch))
		for _, p := range batch {
			ids = append(ids, p.ID)
		}
		sc.countLoad()
		data, err := load(ctx, ids)
		if err != nil {
			return fmt.Errorf("loading specific %s pages: %w", contentType, err)
		}
		for _, p := range batch {
			v, ok := data[p.ID]
			if !ok {
				v = emptySpecific(contentType)
			}
			p.Specific = v
			sc.put(p.ID, v)
		}
	}
	return nil
}

func emptySpecific(contentType string) any {
	switch contentType {
	case model.ContentTypeMenuPage:
		return &model.MenuPageFields{}
	case model.ContentTypeLinkPage:
		return &model.LinkPageFields{}
	default:
		return &model.PlainPage{}
	}
}

func loadMenuPages(src Source) SpecificLoader {
	return func(ctx context.Context, ids []int64) (map[int64]any, error) {
		fields, err := src.MenuPageFields(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make(map[int64]any, len(fields))
		for id, f := range fields {
			out[id] = f
		}
		return out, nil
	}
}

// loadLinkPages loads link page data and resolves the target pages.
func (t *Tree) loadLinkPages(ctx context.Context, ids []int64) (map[int64]any, error) {
	fields, err := t.src.LinkPageFields(ctx, ids)
	if err != nil {
		return nil, err
	}

	var targetIDs []int64
	for _, f := range fields {
		if f.LinkPageID.Valid {
			targetIDs = append(targetIDs, f.LinkPageID.Int64)
		}
	}
	targets := make(map[int64]*model.Page, len(targetIDs))
	if len(targetIDs) > 0 {
		pages, err := t.src.ListPages(ctx, model.PageQuery{}.WithIDs(targetIDs))
		if err != nil {
			return nil, err
		}
		for _, p := range pages {
			targets[p.ID] = p
		}
	}

	out := make(map[int64]any, len(fields))
	for id, f := range fields {
		if f.LinkPageID.Valid {
			f.Target = targets[f.LinkPageID.Int64]
		}
		out[id] = f
	}
	return out, nil
}
