// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/store"
)

// MainTables returns the tables of the default main menu model.
func MainTables(t *testing.T) model.MenuTables {
	t.Helper()
	tables, err := store.ResolveMainMenuTables(config.DefaultMenuSettings())
	if err != nil {
		t.Fatalf("ResolveMainMenuTables: %v", err)
	}
	return tables
}

// FlatTables returns the tables of the default flat menu model.
func FlatTables(t *testing.T) model.MenuTables {
	t.Helper()
	tables, err := store.ResolveFlatMenuTables(config.DefaultMenuSettings())
	if err != nil {
		t.Fatalf("ResolveFlatMenuTables: %v", err)
	}
	return tables
}

// LinkTo returns an unsaved menu item linking to the page at key, with
// sub-menus allowed.
func (s *SiteTree) LinkTo(t *testing.T, key string) model.MenuItem {
	t.Helper()
	return model.MenuItem{
		LinkPageID:  sql.NullInt64{Int64: s.Page(t, key).ID, Valid: true},
		AllowSubnav: true,
	}
}

// URLItem returns an unsaved menu item linking to a custom URL.
func URLItem(linkURL, text string) model.MenuItem {
	return model.MenuItem{LinkURL: linkURL, LinkText: text}
}

// SetMainMenu creates the site's main menu with the given items in order.
// maxLevels and useSpecific replace the defaults when non-zero.
func (s *SiteTree) SetMainMenu(t *testing.T, maxLevels int, useSpecific model.UseSpecific, items ...model.MenuItem) *model.MainMenu {
	t.Helper()
	ctx := context.Background()
	tables := MainTables(t)

	m, err := s.Q.GetOrCreateMainMenu(ctx, tables, s.Site.ID)
	if err != nil {
		t.Fatalf("GetOrCreateMainMenu: %v", err)
	}
	if maxLevels != 0 {
		m.MaxLevels = maxLevels
	}
	if useSpecific != 0 {
		m.UseSpecific = useSpecific
	}
	if err := s.Q.UpdateMainMenu(ctx, tables, m); err != nil {
		t.Fatalf("UpdateMainMenu: %v", err)
	}
	s.addItems(t, tables, m.ID, items)
	return m
}

// AddFlatMenu creates a flat menu on site with the given items in order.
func (s *SiteTree) AddFlatMenu(t *testing.T, site *model.Site, handle, title string, maxLevels int, items ...model.MenuItem) *model.FlatMenu {
	t.Helper()
	tables := FlatTables(t)
	m := &model.FlatMenu{
		SiteID:      site.ID,
		Title:       title,
		Handle:      handle,
		MaxLevels:   maxLevels,
		UseSpecific: model.UseSpecificAuto,
	}
	if err := s.Q.CreateFlatMenu(context.Background(), tables, m); err != nil {
		t.Fatalf("CreateFlatMenu(%q): %v", handle, err)
	}
	s.addItems(t, tables, m.ID, items)
	return m
}

func (s *SiteTree) addItems(t *testing.T, tables model.MenuTables, menuID int64, items []model.MenuItem) {
	t.Helper()
	for i := range items {
		it := items[i]
		it.MenuID = menuID
		it.SortOrder = i
		if err := s.Q.CreateMenuItem(context.Background(), tables, &it); err != nil {
			t.Fatalf("CreateMenuItem(%d): %v", i, err)
		}
	}
}
