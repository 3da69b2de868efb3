// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"fmt"

	"github.com/olegiv/ocms-menus/internal/hooks"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/richtext"
)

// menuItems is the source of menus made of persisted items.
type menuItems struct {
	b      *base
	tables model.MenuTables
	menuID int64
}

func (s menuItems) topLevel(ctx context.Context) ([]*Item, error) {
	b := s.b
	iq, err := hooks.Run(ctx, b.e.hooks, ModifyBaseMenuItemQuery, model.MenuItemQuery{
		Tables:     s.tables,
		MenuID:     s.menuID,
		ForDisplay: true,
	}, b.hookArgs())
	if err != nil {
		return nil, err
	}
	records, err := b.e.store.ListMenuItems(ctx, iq)
	if err != nil {
		return nil, fmt.Errorf("loading menu items: %w", err)
	}
	pq, err := b.basePageQuery(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(records))
	var pages []*model.Page
	for _, r := range records {
		if r.LinkPageID.Valid {
			if r.LinkPage == nil || !pq.Matches(r.LinkPage) {
				continue
			}
			pages = append(pages, r.LinkPage)
		}
		items = append(items, MenuItemEntry(r))
	}
	if b.useSpecific >= model.UseSpecificTopLevel {
		if err := b.e.tree.Specific(ctx, b.sc, pages...); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// loadPages fetches, for each item that allows a sub-menu, the pages
// below its page down to the menu's last level.
func (s menuItems) loadPages(ctx context.Context, q model.PageQuery) ([]*model.Page, error) {
	b := s.b
	if b.maxLevels == 1 {
		return nil, nil
	}
	top, err := b.topLevelItems(ctx)
	if err != nil {
		return nil, err
	}
	var branches []model.PageBranch
	for _, it := range top {
		p := it.Page
		if p == nil || it.MenuItem == nil || !it.MenuItem.AllowSubnav || p.Depth < b.e.settings.SectionRootDepth {
			continue
		}
		branches = append(branches, model.PageBranch{
			PathPrefix:   p.Path,
			DepthAfter:   p.Depth,
			DepthThrough: p.Depth + b.maxLevels - 1,
		})
	}
	if len(branches) == 0 {
		return nil, nil
	}
	return b.e.tree.Pages(ctx, q.WithBranches(branches...))
}

func (menuItems) parentPage() *model.Page { return nil }

// MainMenu is the main navigation of a site.
type MainMenu struct {
	base
	menuItems
	Record *model.MainMenu
}

// NewMainMenu returns an unprepared main menu for rec.
func NewMainMenu(e *Engine, rec *model.MainMenu) *MainMenu {
	m := &MainMenu{Record: rec}
	m.menuItems = menuItems{b: &m.base, tables: e.mainTables, menuID: rec.ID}
	m.init(e, TagMain, m, m, rec.MaxLevels, rec.UseSpecific)
	return m
}

func (m *MainMenu) templateNames() []string {
	return menuTemplateNames(m.e.settings, m.cv.CurrentSite, "main", "", m.e.settings.DefaultMainMenuTemplate)
}

func (m *MainMenu) fillRenderData(context.Context, *RenderData) error { return nil }

// FlatMenu is a named menu of a site, such as a footer menu.
type FlatMenu struct {
	base
	menuItems
	Record *model.FlatMenu
}

// NewFlatMenu returns an unprepared flat menu for rec.
func NewFlatMenu(e *Engine, rec *model.FlatMenu) *FlatMenu {
	m := &FlatMenu{Record: rec}
	m.menuItems = menuItems{b: &m.base, tables: e.flatTables, menuID: rec.ID}
	m.init(e, TagFlat, m, m, rec.MaxLevels, rec.UseSpecific)
	return m
}

// Heading returns the menu heading, or its title when no heading is set.
func (m *FlatMenu) Heading() string {
	if m.Record.Heading != "" {
		return m.Record.Heading
	}
	return m.Record.Title
}

func (m *FlatMenu) templateNames() []string {
	return menuTemplateNames(m.e.settings, m.cv.CurrentSite, "flat", m.Record.Handle, m.e.settings.DefaultFlatMenuTemplate)
}

func (m *FlatMenu) fillRenderData(_ context.Context, d *RenderData) error {
	heading, err := richtext.RenderInline(m.Heading())
	if err != nil {
		return fmt.Errorf("rendering heading of flat menu %q: %w", m.Record.Handle, err)
	}
	d.Handle = m.Record.Handle
	d.Heading = heading
	d.ShowMenuHeading = m.ov.ExtraBool(ExtraShowMenuHeading, false)
	return nil
}
