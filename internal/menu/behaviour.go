// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"sync"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/model"
)

// PageBehaviour customises how pages of one content type act as parents in
// menus. Either func may be nil. Behaviours are only consulted when the
// menu's use_specific level is above off, and the page is downcast first.
type PageBehaviour struct {
	// ModifySubmenuItems returns the items to show below page.
	ModifySubmenuItems func(ctx context.Context, page *model.Page, items []*Item, pc PageContext) ([]*Item, error)
	// HasSubmenuItems reports whether page gets a sub-menu.
	HasSubmenuItems func(ctx context.Context, page *model.Page, pc PageContext) (bool, error)
}

var (
	behavioursMu sync.RWMutex
	behaviours   = map[string]PageBehaviour{}
)

func init() {
	RegisterPageBehaviour(model.ContentTypeMenuPage, PageBehaviour{
		ModifySubmenuItems: menuPageModifySubmenuItems,
		HasSubmenuItems:    menuPageHasSubmenuItems,
	})
}

// RegisterPageBehaviour sets the behaviour of pages of contentType.
func RegisterPageBehaviour(contentType string, b PageBehaviour) {
	behavioursMu.Lock()
	defer behavioursMu.Unlock()
	behaviours[contentType] = b
}

func pageBehaviour(contentType string) (PageBehaviour, bool) {
	behavioursMu.RLock()
	defer behavioursMu.RUnlock()
	b, ok := behaviours[contentType]
	return b, ok
}

// PageContext gives page behaviours access to the menu being built.
type PageContext struct {
	m *base
}

// Menu returns the menu being built.
func (pc PageContext) Menu() Menu { return pc.m.self }

// Contextual returns the menu's contextual values.
func (pc PageContext) Contextual() ContextualVals { return pc.m.cv }

// Options returns the menu's options.
func (pc PageContext) Options() OptionVals { return pc.m.ov }

// Settings returns the engine's menu settings.
func (pc PageContext) Settings() *config.MenuSettings { return pc.m.e.settings }

// PageURL returns the href of page as the menu would render it.
func (pc PageContext) PageURL(ctx context.Context, page *model.Page) (string, error) {
	return pc.m.pageURL(ctx, page)
}

// PageHasChildren reports whether page has children among the menu's pages.
func (pc PageContext) PageHasChildren(ctx context.Context, page *model.Page) (bool, error) {
	return pc.m.PageHasChildren(ctx, page)
}

func menuPageModifySubmenuItems(ctx context.Context, page *model.Page, items []*Item, pc PageContext) ([]*Item, error) {
	mp, ok := page.MenuPage()
	if !ok || !mp.RepeatInSubnav || !pc.Options().AllowRepeatingParents || len(items) == 0 {
		return items, nil
	}
	repeated, err := repeatedMenuItem(ctx, page, mp, pc)
	if err != nil {
		return nil, err
	}
	return append([]*Item{repeated}, items...), nil
}

func menuPageHasSubmenuItems(ctx context.Context, page *model.Page, pc PageContext) (bool, error) {
	return pc.PageHasChildren(ctx, page)
}

// repeatedMenuItem is the copy of page shown first among its own children.
func repeatedMenuItem(ctx context.Context, page *model.Page, mp *model.MenuPageFields, pc PageContext) (*Item, error) {
	href, err := pc.PageURL(ctx, page)
	if err != nil {
		return nil, err
	}
	text := mp.RepeatedItemText
	if text == "" {
		text = page.Title
	}
	var active string
	if pc.Options().ApplyActiveClasses && pc.Contextual().IsCurrentPage(page) {
		active = pc.Settings().ActiveClass
	}
	cp := *page
	return &Item{
		Page:        &cp,
		Text:        text,
		Href:        href,
		ActiveClass: active,
		Repeated:    true,
	}, nil
}
