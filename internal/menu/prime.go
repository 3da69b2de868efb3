// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"net/url"
	"strings"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/model"
)

const translatedTitleField = "translated_title"

// prime fills in the display fields of raw items. Link pages that are
// hidden are dropped.
func (b *base) prime(ctx context.Context, raw []*Item) ([]*Item, error) {
	checkChildren := b.cv.CurrentLevel < b.maxLevels

	// Downcast in batches up front: link pages always, pages with a
	// has-submenu behaviour when use_specific allows it.
	var downcast, pages []*model.Page
	for _, it := range raw {
		p := it.Page
		if p == nil {
			continue
		}
		pages = append(pages, p)
		if p.ContentType == model.ContentTypeLinkPage {
			downcast = append(downcast, p)
			continue
		}
		if checkChildren && b.useSpecific > model.UseSpecificOff {
			if beh, ok := pageBehaviour(p.ContentType); ok && beh.HasSubmenuItems != nil {
				downcast = append(downcast, p)
			}
		}
	}
	if err := b.e.tree.Specific(ctx, b.sc, downcast...); err != nil {
		return nil, err
	}
	titles, err := b.translatedTitles(ctx, pages)
	if err != nil {
		return nil, err
	}

	primed := make([]*Item, 0, len(raw))
	for _, it := range raw {
		keep, err := b.primeItem(ctx, it, checkChildren, titles)
		if err != nil {
			return nil, err
		}
		if keep {
			primed = append(primed, it)
		}
	}
	return primed, nil
}

func (b *base) primeItem(ctx context.Context, it *Item, checkChildren bool, titles map[int64]string) (bool, error) {
	s := b.e.settings
	it.HasChildrenInMenu = false
	it.SubMenu = nil
	it.ActiveClass = ""

	page := it.Page
	if page == nil {
		mi := it.MenuItem
		if mi == nil {
			return false, nil
		}
		it.Text = mi.MenuText(nil)
		it.Href = mi.LinkURL + mi.URLAppend
		if b.ov.ApplyActiveClasses {
			it.ActiveClass = customURLActiveClass(mi.LinkURL, b.cv.RequestPath, s)
		}
		return true, nil
	}

	text := b.pageText(page, titles)
	if it.MenuItem != nil && it.MenuItem.LinkText != "" {
		text = it.MenuItem.LinkText
	}
	it.Text = text

	if page.ContentType == model.ContentTypeLinkPage {
		lp, ok := page.LinkPage()
		if !ok || !lp.ShowInMenus() {
			return false, nil
		}
		href, err := b.linkPageURL(ctx, lp)
		if err != nil {
			return false, err
		}
		it.Href = href
		it.ActiveClass = lp.ExtraClasses
		return true, nil
	}

	if checkChildren && page.Depth >= s.SectionRootDepth &&
		(it.MenuItem == nil || it.MenuItem.AllowSubnav) {
		has, err := b.hasSubmenuItems(ctx, page)
		if err != nil {
			return false, err
		}
		it.HasChildrenInMenu = has
	}

	if b.ov.ApplyActiveClasses {
		switch {
		case b.cv.IsCurrentPage(page):
			it.ActiveClass = s.ActiveClass
			// The repeated copy of the page in its own sub-menu takes
			// the active class instead.
			if b.ov.AllowRepeatingParents && b.useSpecific > model.UseSpecificOff && it.HasChildrenInMenu {
				if mp, ok := page.MenuPage(); ok && mp.RepeatInSubnav {
					it.ActiveClass = s.ActiveAncestorClass
				}
			}
		case b.cv.IsAncestor(page.ID):
			it.ActiveClass = s.ActiveAncestorClass
		}
	}

	href, err := b.pageURL(ctx, page)
	if err != nil {
		return false, err
	}
	if it.MenuItem != nil {
		href += it.MenuItem.URLAppend
	}
	it.Href = href

	if b.ov.AddSubMenusInline && it.HasChildrenInMenu {
		sub, err := b.subMenuFor(ctx, it)
		if err != nil {
			return false, err
		}
		it.SubMenu = sub
	}
	return true, nil
}

// hasSubmenuItems asks the page's behaviour when use_specific allows it,
// and otherwise looks at the prefetched children.
func (b *base) hasSubmenuItems(ctx context.Context, page *model.Page) (bool, error) {
	if b.useSpecific > model.UseSpecificOff {
		if beh, ok := pageBehaviour(page.ContentType); ok && beh.HasSubmenuItems != nil {
			if err := b.e.tree.Specific(ctx, b.sc, page); err != nil {
				return false, err
			}
			return beh.HasSubmenuItems(ctx, page, PageContext{m: b})
		}
	}
	return b.PageHasChildren(ctx, page)
}

func (b *base) linkPageURL(ctx context.Context, lp *model.LinkPageFields) (string, error) {
	if lp.LinkPageID.Valid {
		if lp.Target == nil {
			return "", nil
		}
		href, err := b.pageURL(ctx, lp.Target)
		if err != nil {
			return "", err
		}
		return href + lp.URLAppend, nil
	}
	return lp.LinkURL + lp.URLAppend, nil
}

// translatedTitles is nil unless menu text comes from translated titles.
func (b *base) translatedTitles(ctx context.Context, pages []*model.Page) (map[int64]string, error) {
	if b.e.settings.PageFieldForMenuItemText != translatedTitleField || len(pages) == 0 || b.cv.Language == "" {
		return nil, nil
	}
	ids := make([]int64, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return b.e.tree.TranslatedTitles(ctx, ids, b.cv.Language)
}

// pageText is the text a page shows as a menu item.
func (b *base) pageText(page *model.Page, titles map[int64]string) string {
	field := b.e.settings.PageFieldForMenuItemText
	if field == translatedTitleField {
		if t := titles[page.ID]; t != "" {
			return t
		}
		return page.Title
	}
	return page.TextField(field)
}

// customURLActiveClass matches a custom URL against the request path.
// Query strings and fragments are ignored, so a link with an empty path
// such as "#top" is an ancestor of every request.
func customURLActiveClass(linkURL, requestPath string, s *config.MenuSettings) string {
	u, err := url.Parse(linkURL)
	if err != nil || u.Scheme != "" || u.Host != "" || requestPath == "" {
		return ""
	}
	switch {
	case u.Path == requestPath:
		return s.ActiveClass
	case u.Path != "/" && strings.HasPrefix(requestPath, u.Path):
		return s.ActiveAncestorClass
	}
	return ""
}
