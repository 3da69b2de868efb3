// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/hooks"
	"github.com/olegiv/ocms-menus/internal/pagetree"
	"github.com/olegiv/ocms-menus/internal/render"
	"github.com/olegiv/ocms-menus/internal/testutil"
	"github.com/olegiv/ocms-menus/web"
)

type fixture struct {
	e     *Engine
	st    *testutil.SiteTree
	tree  *pagetree.Tree
	hooks *hooks.Registry
}

// newFixture builds:
//
//	home
//	├── about (menu page, repeated as "Overview")
//	│   ├── team
//	│   │   └── alice
//	│   └── history
//	├── services
//	│   └── consulting
//	├── hidden (not in menus)
//	├── draft (not live)
//	├── docs (link page to a URL)
//	└── alias (link page to about)
func newFixture(t *testing.T, adjust ...func(*config.MenuSettings)) *fixture {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	st := testutil.NewSiteTree(t, db, "localhost", 80)
	about := st.Add(t, "about", testutil.AsMenuPage(true, "Overview"))
	st.Add(t, "about/team")
	st.Add(t, "about/team/alice")
	st.Add(t, "about/history")
	st.Add(t, "services")
	st.Add(t, "services/consulting")
	st.Add(t, "hidden", testutil.Hidden())
	st.Add(t, "draft", testutil.Draft())
	st.Add(t, "docs", testutil.AsLinkPage(0, "https://docs.example.com/", "", "external"))
	st.Add(t, "alias", testutil.AsLinkPage(about.ID, "", "#top", ""))

	return newFixtureFor(t, st, adjust...)
}

func newFixtureFor(t *testing.T, st *testutil.SiteTree, adjust ...func(*config.MenuSettings)) *fixture {
	t.Helper()
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	logger := testutil.TestLoggerSilent()
	tree := pagetree.New(st.Q, c, time.Minute, logger)

	settings := config.DefaultMenuSettings()
	for _, fn := range adjust {
		fn(settings)
	}
	loader, err := render.NewLoader(render.Config{FS: web.Templates(), Funcs: TemplateFuncs(), Logger: logger})
	require.NoError(t, err)

	reg := hooks.NewRegistry(logger)
	e, err := NewEngine(Config{
		Tree:      tree,
		Store:     st.Q,
		Settings:  settings,
		Hooks:     reg,
		Templates: loader,
		Logger:    logger,
	})
	require.NoError(t, err)
	return &fixture{e: e, st: st, tree: tree, hooks: reg}
}

// at returns the contextual values of a request for the page at key.
func (f *fixture) at(t *testing.T, key string) ContextualVals {
	t.Helper()
	ctx := context.Background()
	page := f.st.Page(t, key)
	href, err := f.tree.RelativeURL(ctx, page, f.st.Site)
	require.NoError(t, err)
	cv, err := f.e.Contextual(ctx, RequestInfo{RequestPath: href, Site: f.st.Site, Page: page})
	require.NoError(t, err)
	return cv
}

func byText(items []*Item) map[string]*Item {
	m := make(map[string]*Item, len(items))
	for _, it := range items {
		m[it.Text] = it
	}
	return m
}

func texts(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}
