// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/util"
)

// Demo site defaults.
const (
	DemoHostname = "localhost"
	DemoPort     = 80
)

type demoPage struct {
	title       string
	contentType string
	menuPage    *model.MenuPageFields
	linkURL     string
	children    []demoPage
}

var demoTree = []demoPage{
	{
		title:       "About",
		contentType: model.ContentTypeMenuPage,
		menuPage:    &model.MenuPageFields{RepeatInSubnav: true, RepeatedItemText: "About overview"},
		children: []demoPage{
			{title: "Team", children: []demoPage{{title: "Alice"}, {title: "Bob"}}},
			{title: "History"},
		},
	},
	{
		title:    "Services",
		children: []demoPage{{title: "Consulting"}, {title: "Training"}},
	},
	{title: "Contact"},
	{title: "Docs", contentType: model.ContentTypeLinkPage, linkURL: "https://docs.example.com/"},
}

// SeedDemo creates a demo site with a page tree, a main menu and a "footer"
// flat menu. It does nothing when a default site already exists.
func SeedDemo(ctx context.Context, db *sql.DB, settings *config.MenuSettings, logger *slog.Logger) error {
	mainTables, err := ResolveMainMenuTables(settings)
	if err != nil {
		return err
	}
	flatTables, err := ResolveFlatMenuTables(settings)
	if err != nil {
		return err
	}

	if _, err := New(db).GetDefaultSite(ctx); err == nil {
		logger.Info("default site already exists, skipping demo seed")
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for default site: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := New(tx)

	root, err := q.AddRootPage(ctx, CreatePageParams{Slug: "root", Title: "Root", Live: true})
	if err != nil {
		return fmt.Errorf("creating root page: %w", err)
	}
	home, err := q.AddChildPage(ctx, root, CreatePageParams{Slug: "home", Title: "Home", Live: true})
	if err != nil {
		return fmt.Errorf("creating home page: %w", err)
	}
	site, err := q.CreateSite(ctx, CreateSiteParams{
		Hostname:      DemoHostname,
		Port:          DemoPort,
		SiteName:      "Demo",
		RootPageID:    home.ID,
		IsDefaultSite: true,
	})
	if err != nil {
		return fmt.Errorf("creating site: %w", err)
	}

	sections := make(map[string]*model.Page)
	for _, dp := range demoTree {
		p, err := seedDemoPage(ctx, q, home, dp)
		if err != nil {
			return err
		}
		sections[p.Slug] = p
	}

	mainMenu, err := q.GetOrCreateMainMenu(ctx, mainTables, site.ID)
	if err != nil {
		return fmt.Errorf("creating main menu: %w", err)
	}
	mainItems := []*model.MenuItem{
		{LinkPageID: nullID(home.ID), LinkText: "Home", AllowSubnav: false},
		{LinkPageID: nullID(sections["about"].ID), AllowSubnav: true},
		{LinkPageID: nullID(sections["services"].ID), AllowSubnav: true, Handle: "services"},
		{LinkPageID: nullID(sections["docs"].ID), AllowSubnav: false},
		{LinkURL: "/search/", LinkText: "Search", Handle: "search"},
	}
	for i, it := range mainItems {
		it.MenuID = mainMenu.ID
		it.SortOrder = i
		if err := q.CreateMenuItem(ctx, mainTables, it); err != nil {
			return fmt.Errorf("creating main menu item: %w", err)
		}
	}

	footer := &model.FlatMenu{
		SiteID:      site.ID,
		Title:       "Footer",
		Handle:      "footer",
		Heading:     "Find out more",
		UseSpecific: model.DefaultMenuUseSpecific,
	}
	if err := q.CreateFlatMenu(ctx, flatTables, footer); err != nil {
		return fmt.Errorf("creating footer menu: %w", err)
	}
	footerItems := []*model.MenuItem{
		{LinkPageID: nullID(sections["contact"].ID)},
		{LinkURL: "/privacy/", LinkText: "Privacy policy"},
		{LinkURL: "https://github.com/olegiv/ocms-menus", LinkText: "Source code"},
	}
	for i, it := range footerItems {
		it.MenuID = footer.ID
		it.SortOrder = i
		if err := q.CreateMenuItem(ctx, flatTables, it); err != nil {
			return fmt.Errorf("creating footer menu item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing demo seed: %w", err)
	}
	logger.Info("demo content seeded", "site", site.Hostname, "pages", len(demoTree))
	return nil
}

func seedDemoPage(ctx context.Context, q *Queries, parent *model.Page, dp demoPage) (*model.Page, error) {
	p, err := q.AddChildPage(ctx, parent, CreatePageParams{
		Slug:        util.Slugify(dp.title),
		Title:       dp.title,
		ContentType: dp.contentType,
		Live:        true,
		ShowInMenus: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating page %q: %w", dp.title, err)
	}
	if dp.menuPage != nil {
		if err := q.SetMenuPageFields(ctx, p.ID, *dp.menuPage); err != nil {
			return nil, fmt.Errorf("storing menu page %q: %w", dp.title, err)
		}
	}
	if dp.contentType == model.ContentTypeLinkPage {
		if err := q.SetLinkPageFields(ctx, p.ID, model.LinkPageFields{LinkURL: dp.linkURL}); err != nil {
			return nil, fmt.Errorf("storing link page %q: %w", dp.title, err)
		}
	}
	for _, child := range dp.children {
		if _, err := seedDemoPage(ctx, q, p, child); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}
