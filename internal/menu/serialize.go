// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"

	"github.com/olegiv/ocms-menus/internal/model"
)

// PageJSON is the JSON form of the page behind an item.
type PageJSON struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Type  string `json:"type"`
}

// NewPageJSON returns the JSON form of p.
func NewPageJSON(p *model.Page) *PageJSON {
	if p == nil {
		return nil
	}
	return &PageJSON{ID: p.ID, Title: p.Title, Slug: p.Slug, Type: p.ContentType}
}

// ItemJSON is the JSON form of a primed item.
type ItemJSON struct {
	Text        string     `json:"text"`
	Href        string     `json:"href"`
	ActiveClass string     `json:"active_class"`
	Page        *PageJSON  `json:"page,omitempty"`
	Handle      string     `json:"handle,omitempty"`
	Children    []ItemJSON `json:"children"`
}

// NewItemJSON returns the JSON form of it without children.
func NewItemJSON(it *Item) ItemJSON {
	return ItemJSON{
		Text:        it.Text,
		Href:        it.Href,
		ActiveClass: it.ActiveClass,
		Page:        NewPageJSON(it.Page),
		Handle:      it.Handle,
		Children:    []ItemJSON{},
	}
}

// Serialize returns the menu's items with their sub-menus nested as
// children, down to the menu's last level.
func (b *base) Serialize(ctx context.Context) ([]ItemJSON, error) {
	if b.state != statePrepared {
		return nil, ErrNotPrepared
	}
	b.state = stateSerialized

	items, err := b.primedItems(ctx)
	if err != nil {
		return nil, err
	}
	return b.serializeItems(ctx, items)
}

func (b *base) serializeItems(ctx context.Context, items []*Item) ([]ItemJSON, error) {
	out := make([]ItemJSON, 0, len(items))
	for _, it := range items {
		j := NewItemJSON(it)
		if it.expandable() && b.cv.CurrentLevel < b.maxLevels {
			sub := it.SubMenu
			if sub == nil {
				var err error
				if sub, err = b.subMenuFor(ctx, it); err != nil {
					return nil, err
				}
			}
			children, err := sub.primedItems(ctx)
			if err != nil {
				return nil, err
			}
			if j.Children, err = sub.serializeItems(ctx, children); err != nil {
				return nil, err
			}
		}
		out = append(out, j)
	}
	return out, nil
}
