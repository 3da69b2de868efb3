// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import "github.com/olegiv/ocms-menus/internal/model"

// Item is one entry of a menu: a persisted menu item, or a page taken
// straight from the tree. Priming fills in the display fields.
type Item struct {
	// MenuItem is nil for items made from pages.
	MenuItem *model.MenuItem
	// Page is nil for custom URL items.
	Page *model.Page

	Text              string
	Href              string
	ActiveClass       string
	HasChildrenInMenu bool
	Handle            string

	// Repeated marks the copy of a parent page shown among its children.
	Repeated bool

	// SubMenu is set when sub-menus are added inline.
	SubMenu *SubMenu
}

// PageItem returns an unprimed item for page.
func PageItem(page *model.Page) *Item {
	return &Item{Page: page}
}

// MenuItemEntry returns an unprimed item for a persisted menu item.
func MenuItemEntry(mi *model.MenuItem) *Item {
	return &Item{MenuItem: mi, Page: mi.LinkPage, Handle: mi.Handle}
}

// IsCustomURL reports whether the item links to a URL rather than a page.
func (i *Item) IsCustomURL() bool {
	return i.Page == nil
}

// expandable reports whether a sub-menu can be built below the item.
// Items added by hooks may claim children without a page to list them.
func (i *Item) expandable() bool {
	return i.HasChildrenInMenu && (i.SubMenu != nil || i.Page != nil)
}

// Children returns the primed items of the inline sub-menu, if any.
func (i *Item) Children() []*Item {
	if i.SubMenu == nil {
		return nil
	}
	return i.SubMenu.items
}
